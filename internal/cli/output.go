package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case HealthResult:
		_, _ = fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	case Result:
		o.printResult(v)
	case SessionCreated:
		_, _ = fmt.Fprintf(o.w, "Session: %d\n", v.IDPartida)
	case PlayerStats:
		o.printStats(v)
	case []LeaderboardEntry:
		o.printLeaderboard(v)
	case []SessionSummary:
		o.printSessions(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

// Result is the acknowledgement of mutating endpoints
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// SessionCreated response type
type SessionCreated struct {
	Success   bool  `json:"success"`
	IDPartida int64 `json:"id_partida"`
}

// LeaderboardEntry response type
type LeaderboardEntry struct {
	Identificacion string `json:"Identificacion"`
	Nombre         string `json:"Nombre"`
	Puntuacion     int    `json:"Puntuacion"`
	Ganadas        int    `json:"Ganadas"`
	Empatadas      int    `json:"Empatadas"`
	Perdidas       int    `json:"Perdidas"`
}

// PlayerStats response type
type PlayerStats struct {
	Puntuacion int `json:"Puntuacion"`
	Ganadas    int `json:"Ganadas"`
	Empatadas  int `json:"Empatadas"`
	Perdidas   int `json:"Perdidas"`
}

// SessionSummary response type
type SessionSummary struct {
	PartidaID int64  `json:"PartidaID"`
	Jugador1  string `json:"Jugador1"`
	Jugador2  string `json:"Jugador2"`
	Estado    string `json:"Estado"`
	Fecha     string `json:"Fecha"`
}

func (o *Output) printResult(r Result) {
	if r.Message != "" {
		_, _ = fmt.Fprintln(o.w, r.Message)
		return
	}
	_, _ = fmt.Fprintln(o.w, "OK")
}

func (o *Output) printStats(s PlayerStats) {
	_, _ = fmt.Fprintf(o.w, "Score: %d\n", s.Puntuacion)
	_, _ = fmt.Fprintf(o.w, "Wins: %d\n", s.Ganadas)
	_, _ = fmt.Fprintf(o.w, "Draws: %d\n", s.Empatadas)
	_, _ = fmt.Fprintf(o.w, "Losses: %d\n", s.Perdidas)
}

func (o *Output) printLeaderboard(entries []LeaderboardEntry) {
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(o.w, "No players")
		return
	}
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "#\tNAME\tID\tSCORE\tW\tD\tL")
	for i, e := range entries {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\t%d\n",
			i+1, e.Nombre, e.Identificacion, e.Puntuacion, e.Ganadas, e.Empatadas, e.Perdidas)
	}
	_ = tw.Flush()
}

func (o *Output) printSessions(sessions []SessionSummary) {
	if len(sessions) == 0 {
		_, _ = fmt.Fprintln(o.w, "No sessions")
		return
	}
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tPLAYER 1\tPLAYER 2\tSTATUS\tCREATED")
	for _, s := range sessions {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", s.PartidaID, s.Jugador1, s.Jugador2, s.Estado, s.Fecha)
	}
	_ = tw.Flush()
}
