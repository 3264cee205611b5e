package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/2beens/academy/internal/account"
)

type hashResult struct {
	Hash string `json:"hash"`
	Cost int    `json:"cost"`
}

type migrateResult struct {
	Direction string `json:"direction"`
	Steps     int    `json:"steps,omitempty"`
}

type checkLoginResult struct {
	Role    account.Role     `json:"role"`
	Email   string           `json:"email"`
	OK      bool             `json:"ok"`
	Outcome string           `json:"outcome"`
	Message string           `json:"message,omitempty"`
	Account *account.Account `json:"account,omitempty"`
}

// Output handles formatting output based on the configured format
type Output struct {
	w      io.Writer
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(w io.Writer, format string) *Output {
	return &Output{w: w, format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) error {
	if o.format == outputJSON {
		return o.printJSON(data)
	}
	return o.printText(data)
}

func (o *Output) printJSON(data any) error {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (o *Output) printText(data any) error {
	var err error
	switch v := data.(type) {
	case hashResult:
		_, err = fmt.Fprintln(o.w, v.Hash)
	case migrateResult:
		if v.Steps > 0 {
			_, err = fmt.Fprintf(o.w, "migrated %s %d step(s)\n", v.Direction, v.Steps)
		} else {
			_, err = fmt.Fprintf(o.w, "migrated %s\n", v.Direction)
		}
	case checkLoginResult:
		err = o.printCheckLogin(v)
	default:
		// Fallback to JSON for unknown types
		err = o.printJSON(data)
	}
	return err
}

func (o *Output) printCheckLogin(r checkLoginResult) error {
	if !r.OK {
		_, err := fmt.Fprintf(o.w, "%s login for %s: %s (%s)\n", r.Role, r.Email, r.Outcome, r.Message)
		return err
	}

	_, err := fmt.Fprintf(o.w, "%s login for %s: ok\n  id:   %d\n  name: %s\n", r.Role, r.Email, r.Account.ID, r.Account.Name)
	if err != nil || r.Account.Player == nil {
		return err
	}
	_, err = fmt.Fprintf(o.w, "  batch: %s\n  sport: %s\n  approved: %t\n", r.Account.Player.Batch, r.Account.Player.Sport, r.Account.Player.IsApproved)
	return err
}
