package inventory

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ListLimit caps every list read.
const ListLimit = 500

// Status is the stored text of status_equipamento.
type Status string

const (
	StatusFunctioning Status = "FUNCIONANDO"
	StatusForDiscard  Status = "PARA_DESCARTE"
	StatusInventoried Status = "INVENTARIADO"
	StatusBurned      Status = "QUEIMADO"
)

// DiscardMarker is matched as a case-sensitive substring of the status text
// when counting equipment set aside for discard.
const DiscardMarker = "DESCART"

var statusLabels = map[Status]string{
	StatusFunctioning: "Funcionando",
	StatusForDiscard:  "Para Descarte",
	StatusInventoried: "Inventariado",
	StatusBurned:      "Queimado",
}

// Statuses lists the known values in display order.
func Statuses() []Status {
	return []Status{StatusFunctioning, StatusForDiscard, StatusInventoried, StatusBurned}
}

// Known reports whether s is one of the four enum values.
func (s Status) Known() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label renders s for humans; unknown values fall back to the raw text.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	if s == "" {
		return "Desconhecido"
	}
	return string(s)
}

// IsDiscard applies the discard-count predicate.
func (s Status) IsDiscard() bool {
	return strings.Contains(string(s), DiscardMarker)
}

// UnknownLocation is rendered for ids missing from the lookup.
const UnknownLocation = "Local não identificado"

var locations = map[int64]string{
	1: "Descarte Farolândia",
	2: "Lixo Eletrônico B54",
	3: "D13",
	4: "Inventariado Centro",
}

// Location is an entry of the fixed site lookup.
type Location struct {
	ID   int64  `json:"id"`
	Name string `json:"nome"`
}

// Locations returns the fixed lookup ordered by id.
func Locations() []Location {
	return []Location{
		{ID: 1, Name: locations[1]},
		{ID: 2, Name: locations[2]},
		{ID: 3, Name: locations[3]},
		{ID: 4, Name: locations[4]},
	}
}

// LocationName resolves a location reference; nil and unknown ids yield UnknownLocation.
func LocationName(id *int64) string {
	if id == nil {
		return UnknownLocation
	}
	if name, ok := locations[*id]; ok {
		return name
	}
	return UnknownLocation
}

// Date is a calendar day serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate truncates t to its calendar day in UTC.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts YYYY-MM-DD or a full RFC 3339 timestamp.
func ParseDate(raw string) (Date, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return Date{}, fmt.Errorf("%w: data_cadastro must be YYYY-MM-DD", ErrInvalidInput)
	}
	return NewDate(t), nil
}

func (d Date) String() string { return d.Format(dateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return errors.New("data_cadastro must be a string")
	}
	if strings.TrimSpace(raw) == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Fields are the mutable columns of an equipment row.
type Fields struct {
	Type         string  `json:"tipo_equipamento"`
	Brand        string  `json:"marca"`
	Model        string  `json:"modelo"`
	AssetTag     *string `json:"patrimonio"`
	SerialNumber *string `json:"numero_serie"`
	Status       Status  `json:"status_equipamento"`
	LocationID   *int64  `json:"local_id"`
	RegisteredOn *Date   `json:"data_cadastro"`
	Note         *string `json:"observacao"`
}

// Equipment is a stored equipment row.
type Equipment struct {
	ID int64 `json:"id"`
	Fields
}

// Normalize maps absent or blank optional values to nil so they are stored as NULL.
func (f Fields) Normalize() Fields {
	f.Type = strings.TrimSpace(f.Type)
	f.Brand = strings.TrimSpace(f.Brand)
	f.Model = strings.TrimSpace(f.Model)
	f.Status = Status(strings.TrimSpace(string(f.Status)))
	f.AssetTag = blankToNil(f.AssetTag)
	f.SerialNumber = blankToNil(f.SerialNumber)
	f.Note = blankToNil(f.Note)
	if f.LocationID != nil && *f.LocationID == 0 {
		f.LocationID = nil
	}
	if f.RegisteredOn != nil && f.RegisteredOn.IsZero() {
		f.RegisteredOn = nil
	}
	return f
}

// Validate performs presence checks only.
func (f Fields) Validate() error {
	var missing []string
	if f.Type == "" {
		missing = append(missing, "tipo_equipamento")
	}
	if f.Brand == "" {
		missing = append(missing, "marca")
	}
	if f.Model == "" {
		missing = append(missing, "modelo")
	}
	if f.Status == "" {
		missing = append(missing, "status_equipamento")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidInput, strings.Join(missing, ", "))
	}
	return nil
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// CategoryCount is a row of the by-type report.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// StatusCount is a row of the by-status report.
type StatusCount struct {
	Status Status `json:"status"`
	Count  int64  `json:"count"`
}

// Summary carries the total row count.
type Summary struct {
	Total int64 `json:"total"`
}

// Counts feeds the dashboard cards. InStock mirrors Total: there is no separate in-stock predicate.
type Counts struct {
	Total   int64 `json:"total"`
	InStock int64 `json:"inStock"`
	Discard int64 `json:"discard"`
}

// NewCounts derives the card values from a total and a discard count.
func NewCounts(total, discard int64) Counts {
	return Counts{Total: total, InStock: total, Discard: discard}
}
