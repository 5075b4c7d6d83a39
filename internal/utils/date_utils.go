package utils

import (
	"log/slog"
	"time"
)

// LoadLocation retorna o fuso configurado para datas de pesquisa.
// Se o nome não puder ser carregado, cai para UTC e registra o problema.
func LoadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		slog.Warn("failed to load timezone, falling back to UTC",
			slog.String("timezone", name),
			slog.String("error", err.Error()))
		return time.UTC
	}
	return location
}

// ParseDateParam converte uma string de data para time.Time no fuso informado
func ParseDateParam(value string, loc *time.Location) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	// Tentar formato ISO8601 com timezone
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		t = t.In(loc)
		return &t, nil
	}

	// Tentar formato de data simples
	t, err := time.ParseInLocation("2006-01-02", value, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
