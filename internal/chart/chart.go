// Package chart turns a balance series into a line-chart configuration for the
// browser charting script, and keeps the current chart for the page.
package chart

import (
	"encoding/json"
	"sync/atomic"

	"fintrack/internal/balance"
	"fintrack/internal/core"
)

const (
	LabelIncomes  = "Incomes"
	LabelExpenses = "Expenses"
	LabelBalance  = "Current Balance"
)

// Chart is the configuration object the charting script consumes.
type Chart struct {
	Type    string  `json:"type"`
	Data    Data    `json:"data"`
	Options Options `json:"options"`

	destroyed atomic.Bool
}

type Data struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

type Dataset struct {
	Label       string    `json:"label"`
	Data        []float64 `json:"data"`
	BorderColor string    `json:"borderColor"`
	Fill        bool      `json:"fill"`
}

type Options struct {
	Responsive bool            `json:"responsive"`
	Scales     map[string]Axis `json:"scales"`
}

type Axis struct {
	Title AxisTitle `json:"title"`
}

type AxisTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

// New builds a line chart with incomes, expenses and balance datasets.
func New(s balance.Series) *Chart {
	return &Chart{
		Type: "line",
		Data: Data{
			Labels: append([]string{}, s.Labels...),
			Datasets: []Dataset{
				{Label: LabelIncomes, Data: values(s.Incomes), BorderColor: "green"},
				{Label: LabelExpenses, Data: values(s.Expenses), BorderColor: "red"},
				{Label: LabelBalance, Data: values(s.Balances), BorderColor: "blue"},
			},
		},
		Options: Options{
			Responsive: true,
			Scales: map[string]Axis{
				"x": {Title: AxisTitle{Display: true, Text: "Date"}},
				"y": {Title: AxisTitle{Display: true, Text: "Amount ($)"}},
			},
		},
	}
}

// Dataset returns the dataset with the given label.
func (c *Chart) Dataset(label string) (Dataset, bool) {
	for _, d := range c.Data.Datasets {
		if d.Label == label {
			return d, true
		}
	}
	return Dataset{}, false
}

// Destroy takes the chart off the canvas. Its data stays readable for callers
// still holding it.
func (c *Chart) Destroy() { c.destroyed.Store(true) }

// Destroyed reports whether Destroy was called.
func (c *Chart) Destroyed() bool { return c.destroyed.Load() }

// JSON encodes the chart configuration.
func (c *Chart) JSON() ([]byte, error) {
	return json.Marshal(c)
}

func values(ms []core.Money) []float64 {
	out := make([]float64, len(ms))
	for i, m := range ms {
		out[i] = m.Float64()
	}
	return out
}
