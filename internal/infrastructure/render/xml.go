package render

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/Timesheet-api/internal/domain/entity"
	"github.com/jhoicas/Timesheet-api/internal/domain/invoice"
)

// Namespaces UBL 2.1 usados al crear elementos que el esqueleto no trae.
const (
	NsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NsCac     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
)

// unitHours código UN/ECE rec 20 para horas.
const unitHours = "HUR"

// XMLRenderer completa un esqueleto UBL (*.xml) con los datos del modelo y lo
// devuelve canonicalizado (C14N), listo para firmar o enviar.
type XMLRenderer struct {
	fs afero.Fs
}

var _ invoice.Renderer = (*XMLRenderer)(nil)

// NewXMLRenderer fs es de donde se leen los esqueletos.
func NewXMLRenderer(fs afero.Fs) *XMLRenderer { return &XMLRenderer{fs: fs} }

// ID clave de registro.
func (r *XMLRenderer) ID() string { return "xml" }

// Supports implementa invoice.Renderer.
func (r *XMLRenderer) Supports(doc *entity.InvoiceDocument) bool {
	return doc != nil && doc.HasExtension("xml")
}

// Render implementa invoice.Renderer.
func (r *XMLRenderer) Render(_ context.Context, doc *entity.InvoiceDocument, model *invoice.Model) (*invoice.RenderedDocument, error) {
	src, err := afero.ReadFile(r.fs, doc.Path)
	if err != nil {
		return nil, fmt.Errorf("xml: leer %s: %w", doc.Path, err)
	}
	tree := etree.NewDocument()
	if err := tree.ReadFromBytes(src); err != nil {
		return nil, fmt.Errorf("xml: parsear %s: %w", doc.Filename, err)
	}
	root := tree.Root()
	if root == nil {
		return nil, fmt.Errorf("xml: %s sin elemento raíz", doc.Filename)
	}

	ensureNamespaces(root)
	fillInvoice(root, NewView(model))
	pruneEmpty(root)

	// la declaración se escribe aparte; C14N no la conserva
	for _, tok := range append([]etree.Token(nil), tree.Child...) {
		if p, ok := tok.(*etree.ProcInst); ok {
			tree.RemoveChild(p)
		}
	}
	tree.Indent(2)
	raw, err := tree.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("xml: serializar: %w", err)
	}
	canonical, err := canonicalizeXML(raw)
	if err != nil {
		return nil, fmt.Errorf("xml: canonicalizar: %w", err)
	}
	out := append([]byte(xml.Header), canonical...)
	return &invoice.RenderedDocument{
		Filename:    Filename(model, "xml"),
		ContentType: "application/xml",
		Content:     out,
	}, nil
}

func canonicalizeXML(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}

// ensureNamespaces declara los prefijos cac/cbc si el esqueleto no lo hace.
func ensureNamespaces(root *etree.Element) {
	if root.Space == "" && root.SelectAttr("xmlns") == nil {
		root.CreateAttr("xmlns", NsInvoice)
	}
	if root.SelectAttr("xmlns:cac") == nil {
		root.CreateAttr("xmlns:cac", NsCac)
	}
	if root.SelectAttr("xmlns:cbc") == nil {
		root.CreateAttr("xmlns:cbc", NsCbc)
	}
}

// fillInvoice escribe cabecera, partes, totales y una InvoiceLine por línea calculada.
// Los elementos existentes del esqueleto se reutilizan; los que faltan se crean.
func fillInvoice(root *etree.Element, v View) {
	currency := v.Currency

	setText(root, "cbc:ID", v.InvoiceNumber)
	setText(root, "cbc:IssueDate", v.InvoiceDate.Format("2006-01-02"))
	setText(root, "cbc:DueDate", v.DueDate.Format("2006-01-02"))
	setText(root, "cbc:DocumentCurrencyCode", currency)
	if v.Begin != nil || v.End != nil {
		period := ensurePath(root, "cac:InvoicePeriod")
		if v.Begin != nil {
			setText(period, "cbc:StartDate", v.Begin.Format("2006-01-02"))
		}
		if v.End != nil {
			setText(period, "cbc:EndDate", v.End.Format("2006-01-02"))
		}
	}

	if t := v.Template; t != nil {
		party := ensurePath(root, "cac:AccountingSupplierParty/cac:Party")
		setText(party, "cac:PartyName/cbc:Name", t.Company)
		setText(party, "cac:PostalAddress/cbc:StreetName", firstLine(t.Address))
		if t.VatID != "" {
			setText(party, "cac:PartyTaxScheme/cbc:CompanyID", t.VatID)
		}
		if t.PaymentTerms != "" {
			setText(root, "cac:PaymentTerms/cbc:Note", t.PaymentTerms)
		}
	}
	if c := v.Customer; c != nil {
		party := ensurePath(root, "cac:AccountingCustomerParty/cac:Party")
		setText(party, "cac:PartyName/cbc:Name", c.DisplayName())
		setText(party, "cac:PostalAddress/cbc:StreetName", firstLine(c.Address))
		if c.Country != "" {
			setText(party, "cac:PostalAddress/cac:Country/cbc:IdentificationCode", c.Country)
		}
		if c.VatID != "" {
			setText(party, "cac:PartyTaxScheme/cbc:CompanyID", c.VatID)
		}
	}

	tax := ensurePath(root, "cac:TaxTotal")
	setAmount(tax, "cbc:TaxAmount", v.Totals.Tax, currency)
	sub := ensurePath(tax, "cac:TaxSubtotal")
	setAmount(sub, "cbc:TaxableAmount", v.Totals.Subtotal, currency)
	setAmount(sub, "cbc:TaxAmount", v.Totals.Tax, currency)
	setText(sub, "cac:TaxCategory/cbc:Percent", v.Totals.Vat.StringFixed(2))

	totals := ensurePath(root, "cac:LegalMonetaryTotal")
	setAmount(totals, "cbc:LineExtensionAmount", v.Totals.Subtotal, currency)
	setAmount(totals, "cbc:TaxExclusiveAmount", v.Totals.Subtotal, currency)
	setAmount(totals, "cbc:TaxInclusiveAmount", v.Totals.Total, currency)
	setAmount(totals, "cbc:PayableAmount", v.Totals.Total, currency)

	// las líneas del esqueleto se reemplazan por las calculadas
	for _, old := range root.SelectElements("cac:InvoiceLine") {
		root.RemoveChild(old)
	}
	for i, e := range v.Entries {
		line := root.CreateElement("cac:InvoiceLine")
		line.CreateElement("cbc:ID").SetText(strconv.Itoa(i + 1))
		qty := line.CreateElement("cbc:InvoicedQuantity")
		quantity, unit := entryQuantity(e)
		qty.CreateAttr("unitCode", unit)
		qty.SetText(quantity.StringFixed(2))
		amt := line.CreateElement("cbc:LineExtensionAmount")
		amt.CreateAttr("currencyID", currency)
		amt.SetText(e.Rate.StringFixed(2))
		item := line.CreateElement("cac:Item")
		item.CreateElement("cbc:Description").SetText(nonEmpty(e.Description, entryFallback(e)))
		price := line.CreateElement("cac:Price").CreateElement("cbc:PriceAmount")
		price.CreateAttr("currencyID", currency)
		price.SetText(entryUnitPrice(e).StringFixed(2))
	}
}

// entryQuantity horas trabajadas para tiempo; cantidad (Amount) para tarifas fijas.
func entryQuantity(e *invoice.Entry) (decimal.Decimal, string) {
	if e.FixedRate != nil {
		q := e.Amount
		if q.IsZero() {
			q = decimal.NewFromInt(1)
		}
		return q, "C62"
	}
	return decimal.NewFromInt(e.Duration).Div(decimal.NewFromInt(3600)), unitHours
}

func entryUnitPrice(e *invoice.Entry) decimal.Decimal {
	if e.FixedRate != nil {
		return *e.FixedRate
	}
	return e.HourlyRate
}

// ensurePath devuelve el elemento en path (separado por "/"), creando lo que falte.
func ensurePath(parent *etree.Element, path string) *etree.Element {
	el := parent
	for _, tag := range strings.Split(path, "/") {
		child := el.SelectElement(tag)
		if child == nil {
			child = el.CreateElement(tag)
		}
		el = child
	}
	return el
}

func setText(parent *etree.Element, path, value string) {
	ensurePath(parent, path).SetText(value)
}

func setAmount(parent *etree.Element, path string, amount decimal.Decimal, currency string) {
	el := ensurePath(parent, path)
	el.CreateAttr("currencyID", currency)
	el.SetText(amount.StringFixed(2))
}

// pruneEmpty quita los elementos del esqueleto que quedaron sin datos.
func pruneEmpty(el *etree.Element) bool {
	for _, child := range el.ChildElements() {
		if pruneEmpty(child) {
			el.RemoveChild(child)
		}
	}
	return len(el.ChildElements()) == 0 && len(el.Attr) == 0 && strings.TrimSpace(el.Text()) == ""
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
