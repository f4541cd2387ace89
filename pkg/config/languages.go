package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/jhoicas/Timesheet-api/internal/domain/invoice"
)

// LoadLanguageFormats devuelve los formatos incluidos más los del archivo YAML
// (clave "languages"); el archivo sobrescribe por idioma. path vacío = solo los incluidos.
//
//	languages:
//	  de:
//	    date: "02.01.2006"
//	    duration: "%h:%m h"
//	    time: "15:04"
func LoadLanguageFormats(path string) (map[string]invoice.LanguageFormat, error) {
	formats := invoice.DefaultLanguageFormats()
	if path == "" {
		return formats, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("leer formatos de idioma %s: %w", path, err)
	}
	var file struct {
		Languages map[string]invoice.LanguageFormat `mapstructure:"languages"`
	}
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("formatos de idioma %s: %w", path, err)
	}
	for lang, f := range file.Languages {
		base, ok := formats[lang]
		if ok {
			f = mergeFormat(base, f)
		}
		formats[lang] = f
	}
	return formats, nil
}

// mergeFormat completa los campos vacíos de override con base.
func mergeFormat(base, override invoice.LanguageFormat) invoice.LanguageFormat {
	if override.Date == "" {
		override.Date = base.Date
	}
	if override.Duration == "" {
		override.Duration = base.Duration
	}
	if override.Time == "" {
		override.Time = base.Time
	}
	return override
}
