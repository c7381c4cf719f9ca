package server

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/jacobpatterson1549/tennis-scorer/game"

	gamedb "github.com/jacobpatterson1549/tennis-scorer/db/game"
	servergame "github.com/jacobpatterson1549/tennis-scorer/server/game"
)

type (
	// errorResponse is the json body of requests that fail.
	errorResponse struct {
		Timestamp string            `json:"timestamp"`
		Status    int               `json:"status"`
		Error     string            `json:"error"`
		Message   string            `json:"message,omitempty"`
		Errors    map[string]string `json:"errors,omitempty"`
	}

	// gameView is a saved game state with its winner.
	gameView struct {
		game.State
		Winner *string `json:"winner"`
	}

	// wrappedResponseWriter wraps response writing with another writer.
	wrappedResponseWriter struct {
		io.Writer
		http.ResponseWriter
	}
)

const (
	// HeaderContentType is used to set the document type header on http responses.
	HeaderContentType = "Content-Type"
	// HeaderAcceptEncoding is specified by the browser to tell the server what types of document encoding it can handle.
	HeaderAcceptEncoding = "Accept-Encoding"
	// HeaderContentEncoding is used to tell browsers how the document is encoded.
	HeaderContentEncoding = "Content-Encoding"
	// HeaderAllowOrigin tells browsers which sites can read responses.
	HeaderAllowOrigin = "Access-Control-Allow-Origin"
	// HeaderAllowMethods tells browsers which methods can be used in cross-origin requests.
	HeaderAllowMethods = "Access-Control-Allow-Methods"
	// HeaderAllowHeaders tells browsers which headers can be sent in cross-origin requests.
	HeaderAllowHeaders = "Access-Control-Allow-Headers"
	// healthMessage is the body of the health check.
	healthMessage = "Tennis Game Service is running"
	// timestampLayout formats the time of error responses without a time zone.
	timestampLayout = "2006-01-02T15:04:05"
	// metricsPath is the endpoint of the prometheus metrics.
	metricsPath = "/metrics"
)

// handler creates the handler for all endpoints.
// Requests with methods that an endpoint does not handle are rejected with 405, unknown paths with 404.
func (p Parameters) handler(monitor http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /api/tennis/games", p.playHandler())
	mux.Handle("GET /api/tennis/games", gzipHandler(p.listGamesHandler()))
	mux.Handle("GET /api/tennis/games/{id}", p.getGameHandler())
	mux.HandleFunc("GET /api/tennis/health", healthHandler)
	mux.Handle("GET /api/tennis/rules", p.rulesHandler())
	mux.Handle("GET /api/tennis/stats", p.statsHandler())
	mux.Handle("GET /api/tennis/stats/summary", p.statsSummaryHandler())
	mux.Handle("GET /api/tennis/live", p.Live)
	mux.Handle("GET "+metricsPath, p.Metrics)
	mux.Handle("GET /monitor", monitor)
	return corsHandler(mux)
}

// corsHandler allows the api to be used from any site.  Preflight requests are answered without calling the child handler.
func corsHandler(h http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(HeaderAllowOrigin, "*")
		if r.Method == http.MethodOptions {
			w.Header().Set(HeaderAllowMethods, "GET, POST, OPTIONS")
			w.Header().Set(HeaderAllowHeaders, HeaderContentType)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	}
}

// playHandler plays the ball sequence of the request.
func (p Parameters) playHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req servergame.Request
		d := json.NewDecoder(r.Body)
		if err := d.Decode(&req); err != nil {
			p.Logger.Printf("invalid game request: %v", err)
			p.writeError(w, http.StatusBadRequest, "Invalid Request", "Request body must be a json object with a ballSequence", nil)
			return
		}
		if p.Debug {
			p.Logger.Printf("playing game with sequence: %v", req.BallSequence)
		}
		resp, err := p.Service.Play(r.Context(), req)
		var validationErr *servergame.ValidationError
		switch {
		case errors.As(err, &validationErr):
			p.Logger.Printf("validation error: %v", err)
			errs := map[string]string{
				validationErr.Field: validationErr.Message,
			}
			p.writeError(w, http.StatusBadRequest, "Validation Failed", "", errs)
			return
		case err != nil:
			p.writeInternalError(w, err)
			return
		}
		p.writeJSON(w, http.StatusOK, resp)
	}
}

// listGamesHandler writes the saved games.  Only finished games are written if the finished query parameter is true.
func (p Parameters) listGamesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list := p.Dao.List
		if v := r.URL.Query().Get("finished"); len(v) != 0 {
			finished, err := strconv.ParseBool(v)
			if err != nil {
				p.writeError(w, http.StatusBadRequest, "Invalid Request", fmt.Sprintf("finished must be true or false, got %q", v), nil)
				return
			}
			if finished {
				list = p.Dao.ListFinished
			}
		}
		states, err := list(r.Context())
		if err != nil {
			p.writeInternalError(w, err)
			return
		}
		views := make([]gameView, len(states))
		for i, s := range states {
			views[i] = newGameView(s)
		}
		p.writeJSON(w, http.StatusOK, views)
	}
}

// getGameHandler writes the saved game with the id in the path.
func (p Parameters) getGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		s, err := p.Dao.Read(r.Context(), id)
		switch {
		case errors.Is(err, gamedb.ErrNotFound):
			p.writeError(w, http.StatusNotFound, "Not Found", fmt.Sprintf("game %v not found", id), nil)
			return
		case err != nil:
			p.writeInternalError(w, err)
			return
		}
		p.writeJSON(w, http.StatusOK, newGameView(*s))
	}
}

// healthHandler writes that the server is running.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(HeaderContentType, "text/plain; charset=utf-8")
	io.WriteString(w, healthMessage)
}

// rulesHandler writes the rules of the game.
func (p Parameters) rulesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p.writeJSON(w, http.StatusOK, game.Rules())
	}
}

// statsHandler writes the counts of games, points, and wins with win rates once a game has been played.
func (p Parameters) statsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := p.Stats.Snapshot()
		if err != nil {
			p.writeInternalError(w, err)
			return
		}
		stats := map[string]interface{}{
			"gamesPlayed":     snap.GamesPlayed,
			"pointsScored":    snap.PointsScored,
			"playerAWins":     snap.PlayerAWins,
			"playerBWins":     snap.PlayerBWins,
			"metricsEndpoint": metricsPath,
		}
		if snap.GamesPlayed > 0 {
			games := float64(snap.GamesPlayed)
			stats["playerAWinRate"] = fmt.Sprintf("%.2f%%", float64(snap.PlayerAWins)/games*100)
			stats["playerBWinRate"] = fmt.Sprintf("%.2f%%", float64(snap.PlayerBWins)/games*100)
			stats["averagePointsPerGame"] = fmt.Sprintf("%.2f", float64(snap.PointsScored)/games)
		}
		p.writeJSON(w, http.StatusOK, stats)
	}
}

// statsSummaryHandler writes the total counts and the counts of saved games.
func (p Parameters) statsSummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := p.Stats.Snapshot()
		if err != nil {
			p.writeInternalError(w, err)
			return
		}
		status := "No games played yet"
		if snap.GamesPlayed > 0 {
			status = "Active"
		}
		summary := map[string]interface{}{
			"totalGames":  snap.GamesPlayed,
			"totalPoints": snap.PointsScored,
			"status":      status,
		}
		ctx := r.Context()
		counts := []struct {
			key   string
			count func() (int, error)
		}{
			{"storedGames", func() (int, error) { return p.Dao.CountTotal(ctx) }},
			{"storedFinishedGames", func() (int, error) { return p.Dao.CountFinished(ctx) }},
			{"storedPlayerAWins", func() (int, error) { return p.Dao.CountByWinner(ctx, game.A) }},
			{"storedPlayerBWins", func() (int, error) { return p.Dao.CountByWinner(ctx, game.B) }},
		}
		for _, c := range counts {
			n, err := c.count()
			if err != nil {
				p.writeInternalError(w, fmt.Errorf("counting %v: %w", c.key, err))
				return
			}
			summary[c.key] = n
		}
		p.writeJSON(w, http.StatusOK, summary)
	}
}

func newGameView(s game.State) gameView {
	v := gameView{
		State: s,
	}
	if s.Finished {
		winner := s.WinnerName()
		v.Winner = &winner
	}
	return v
}

// writeJSON writes the value as the json body of the response.
// The value is encoded before writing so encoding failures can be reported as internal errors.
func (p Parameters) writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		p.Logger.Printf("encoding json response: %v", err)
		httpError(w, http.StatusInternalServerError)
		return
	}
	w.Header().Set(HeaderContentType, "application/json")
	w.WriteHeader(statusCode)
	w.Write(b)
}

// writeError writes the error response.
func (p Parameters) writeError(w http.ResponseWriter, statusCode int, reason, message string, errs map[string]string) {
	resp := errorResponse{
		Timestamp: p.TimeFunc().Format(timestampLayout),
		Status:    statusCode,
		Error:     reason,
		Message:   message,
		Errors:    errs,
	}
	p.writeJSON(w, statusCode, resp)
}

// writeInternalError logs and writes the error as an internal server error (500).  The cause is not shown to the user.
func (p Parameters) writeInternalError(w http.ResponseWriter, err error) {
	p.Logger.Printf("server error: %v", err)
	p.writeError(w, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred", nil)
}

// gzipHandler compresses responses if the request accepts gzip encoding.
func gzipHandler(h http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.Header.Get(HeaderAcceptEncoding), "gzip") {
			w2 := gzip.NewWriter(w)
			defer w2.Close()
			w = wrappedResponseWriter{
				Writer:         w2,
				ResponseWriter: w,
			}
			w.Header().Add(HeaderContentEncoding, "gzip")
		}
		h.ServeHTTP(w, r)
	}
}

// httpError writes the error status code.
func httpError(w http.ResponseWriter, statusCode int) {
	http.Error(w, http.StatusText(statusCode), statusCode)
}

// Write delegates the write to the wrapped writer.
func (wrw wrappedResponseWriter) Write(p []byte) (n int, err error) {
	return wrw.Writer.Write(p)
}
