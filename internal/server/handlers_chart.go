package server

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"github.com/wrenlabs/slate/internal/models"
)

// handleFinanceChart handles GET /api/user/finance-chart — render the
// caller's running balance as a PNG line chart for the dashboard.
func (s *Server) handleFinanceChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	account, ok := s.loadSessionAccount(w, r)
	if !ok {
		return
	}

	png, err := renderBalanceChart(account)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// renderBalanceChart plots the balance implied by the transaction ledger,
// walking backwards from the current balance. Returns raw PNG bytes.
func renderBalanceChart(account *models.Account) ([]byte, error) {
	txs := account.Transactions
	if len(txs) < 2 {
		return nil, fmt.Errorf("need at least 2 transactions, got %d", len(txs))
	}

	// Balance after each transaction, ending at the current balance
	balances := make([]float64, len(txs))
	running := account.Money
	for i := len(txs) - 1; i >= 0; i-- {
		balances[i] = running
		if txs[i].Kind == models.TransactionDebit {
			running += txs[i].Amount
		} else {
			running -= txs[i].Amount
		}
	}

	xValues := make([]float64, len(txs))
	for i := range txs {
		xValues[i] = float64(i + 1)
	}

	series := chart.ContinuousSeries{
		Name: "Balance",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"),
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: balances,
	}

	graph := chart.Chart{
		Title:  "Account Balance",
		Width:  900,
		Height: 300,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("#%.0f", f)
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{series},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
