package eventbus

import (
	"encoding/json"
	"fmt"
)

// Типы событий импорта схематик
const (
	TypeSchematicImported = "schematic.imported"
	TypeSchematicFailed   = "schematic.failed"
)

// PayloadVersion текущая версия схемы полезной нагрузки
const PayloadVersion = 1

// SchematicImported публикуется после успешного импорта
type SchematicImported struct {
	Session     string `json:"session"`
	Name        string `json:"name"`
	Digest      string `json:"digest"`
	Height      int    `json:"height"`
	Length      int    `json:"length"`
	Width       int    `json:"width"`
	PaletteSize int    `json:"palette_size"`
	Cached      bool   `json:"cached"`
}

// SchematicFailed публикуется при ошибке импорта
type SchematicFailed struct {
	Session string `json:"session"`
	Name    string `json:"name"`
	Reason  string `json:"reason"`
	Error   string `json:"error"`
}

// NewEnvelope упаковывает полезную нагрузку в JSON-конверт.
// ID и Timestamp заполняет шина при публикации.
func NewEnvelope(source, eventType string, payload any) (*Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("eventbus: сериализация %s: %w", eventType, err)
	}
	return &Envelope{
		Source:    source,
		EventType: eventType,
		Version:   PayloadVersion,
		Payload:   data,
		Metadata:  map[string]string{},
	}, nil
}

// Decode разбирает полезную нагрузку конверта в v
func (ev *Envelope) Decode(v any) error {
	return json.Unmarshal(ev.Payload, v)
}
