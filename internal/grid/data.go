package grid

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/nao1215/crimetrends/internal/model"
)

// displayVariable is the global the renderer reads the display from.
const displayVariable = "window.CRIMETRENDS_DISPLAY"

// number is a float64 that encodes NaN and infinities as JSON null.
type number float64

// MarshalJSON implements json.Marshaler.
func (n number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

type layoutDoc struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

type sortDoc struct {
	Key        model.SortKey `json:"key"`
	Descending bool          `json:"descending"`
}

type panelDoc struct {
	ID         string                   `json:"id"`
	Borough    string                   `json:"borough"`
	Offence    string                   `json:"offence"`
	Cognostics map[model.SortKey]number `json:"cognostics"`
	FirstYear  int                      `json:"first_year"`
	LastYear   int                      `json:"last_year"`
	Thumbnail  string                   `json:"thumbnail,omitempty"`
	Chart      model.PanelChart         `json:"chart"`
}

type displayDoc struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	BuildID     string          `json:"build_id,omitempty"`
	GeneratedAt time.Time       `json:"generated_at"`
	Layout      layoutDoc       `json:"layout"`
	Sort        sortDoc         `json:"sort"`
	Labels      []model.SortKey `json:"labels"`
	Cognostics  []Cognostic     `json:"cognostics"`
	Panels      []panelDoc      `json:"panels"`
}

// cognosticRow is one line of the flat cognostics export.
type cognosticRow struct {
	Borough   string `json:"borough"`
	Offence   string `json:"offence"`
	Slope     number `json:"slope"`
	Mean      number `json:"mean"`
	IQR       number `json:"iqr"`
	Count     int    `json:"count"`
	Min       int64  `json:"min"`
	Max       int64  `json:"max"`
	FirstYear int    `json:"first_year"`
	LastYear  int    `json:"last_year"`
	PctChange number `json:"pct_change"`
}

func newDisplayDoc(d *Display, ids []string, buildID string, generatedAt time.Time) displayDoc {
	doc := displayDoc{
		Name:        d.Name,
		Description: d.Description,
		BuildID:     buildID,
		GeneratedAt: generatedAt.UTC(),
		Layout:      layoutDoc{Rows: d.Rows, Cols: d.Cols},
		Sort:        sortDoc{Key: d.SortKey, Descending: d.SortDescending},
		Labels:      d.Labels,
		Cognostics:  d.Cognostics,
		Panels:      make([]panelDoc, len(d.Panels)),
	}

	for i, p := range d.Panels {
		cogs := make(map[model.SortKey]number, len(model.NumericSortKeys))
		for _, key := range model.NumericSortKeys {
			v, _ := p.Cognostic(key)
			cogs[key] = number(v)
		}
		doc.Panels[i] = panelDoc{
			ID:         ids[i],
			Borough:    p.Borough,
			Offence:    p.Offence,
			Cognostics: cogs,
			FirstYear:  p.FirstYear,
			LastYear:   p.LastYear,
			Thumbnail:  p.Thumbnail,
			Chart:      p.Chart,
		}
	}
	return doc
}

// encodeDisplayScript renders the display as a JavaScript assignment.
func encodeDisplayScript(doc displayDoc) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode display: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(displayVariable)
	buf.WriteString(" = ")
	buf.Write(data)
	buf.WriteString(";\n")
	return buf.Bytes(), nil
}

// encodeCognostics renders the flat cognostics table as indented JSON.
func encodeCognostics(panels []model.PanelSummary) ([]byte, error) {
	rows := make([]cognosticRow, len(panels))
	for i, p := range panels {
		rows[i] = cognosticRow{
			Borough:   p.Borough,
			Offence:   p.Offence,
			Slope:     number(p.Slope),
			Mean:      number(p.Mean),
			IQR:       number(p.IQR),
			Count:     p.Count,
			Min:       p.Min,
			Max:       p.Max,
			FirstYear: p.FirstYear,
			LastYear:  p.LastYear,
			PctChange: number(p.PctChange),
		}
	}

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode cognostics: %w", err)
	}
	return append(data, '\n'), nil
}
