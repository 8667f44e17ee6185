package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"capsearch/internal/export"
	"capsearch/internal/models"
	"capsearch/internal/session"
	"capsearch/internal/source"
)

// API is the HTTP surface consumed by the presentation layer.
type API struct {
	sessionMgr      *session.Manager
	defaultLanguage string
}

// New builds the HTTP handler.
func New(sessionMgr *session.Manager, defaultLanguage string) http.Handler {
	api := &API{
		sessionMgr:      sessionMgr,
		defaultLanguage: defaultLanguage,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /captions/{videoId}", api.handleLoad)
	mux.HandleFunc("GET /captions/{videoId}/search", api.handleSearch)
	mux.HandleFunc("GET /captions/{videoId}/active", api.handleActiveCue)
	mux.HandleFunc("GET /captions/{videoId}/export", api.handleExport)
	mux.HandleFunc("POST /captions/{videoId}/import", api.handleImport)
	mux.HandleFunc("DELETE /captions/{videoId}", api.handleInvalidate)
	mux.HandleFunc("GET /healthz", api.handleHealth)

	return mux
}

// loadFailure is the JSON body returned for terminal pipeline failures.
type loadFailure struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

func reasonCode(err error) string {
	switch {
	case errors.Is(err, models.ErrNoVideoID):
		return "no_video_identifier"
	case errors.Is(err, models.ErrNoTracksFound):
		return "no_tracks_found"
	case errors.Is(err, models.ErrFetchFailed):
		return "fetch_failed"
	case errors.Is(err, models.ErrUnparsableFormat):
		return "unparsable_format"
	case errors.Is(err, models.ErrUnsupportedExtension):
		return "unsupported_file_extension"
	case errors.Is(err, models.ErrEmptyResult):
		return "empty_result"
	}
	return "internal"
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeLoadError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, models.ErrNoVideoID), errors.Is(err, models.ErrUnsupportedExtension), errors.Is(err, models.ErrUnparsableFormat):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrNoTracksFound), errors.Is(err, models.ErrEmptyResult):
		status = http.StatusNotFound
	}
	writeJSON(w, status, loadFailure{Error: err.Error(), Reason: reasonCode(err)})
}

func (a *API) language(r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return lang
	}
	return a.defaultLanguage
}

func (a *API) handleLoad(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("videoId")
	sess := a.sessionMgr.GetOrCreateSession(videoID)

	result, err := sess.Load(r.Context(), a.language(r))
	if err != nil {
		writeLoadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ensureLoaded returns the session's current result, loading the requested
// language first when nothing is committed yet.
func (a *API) ensureLoaded(r *http.Request, sess *session.VideoSession) error {
	if _, ok := sess.Current(); ok {
		return nil
	}
	_, err := sess.Load(r.Context(), a.language(r))
	return err
}

func (a *API) handleSearch(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("videoId")
	sess := a.sessionMgr.GetOrCreateSession(videoID)
	if err := a.ensureLoaded(r, sess); err != nil {
		writeLoadError(w, err)
		return
	}

	result, ok := sess.Search(r.URL.Query().Get("q"))
	if !ok {
		writeJSON(w, http.StatusNotFound, loadFailure{Error: "no captions loaded", Reason: "empty_result"})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) handleActiveCue(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("videoId")
	t, err := strconv.ParseFloat(r.URL.Query().Get("t"), 64)
	if err != nil {
		http.Error(w, "query parameter t must be a number of seconds", http.StatusBadRequest)
		return
	}

	sess := a.sessionMgr.GetOrCreateSession(videoID)
	if err := a.ensureLoaded(r, sess); err != nil {
		writeLoadError(w, err)
		return
	}

	cue, ok := sess.ActiveCueAt(t)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, cue)
}

func (a *API) handleExport(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("videoId")
	sess := a.sessionMgr.GetOrCreateSession(videoID)
	if err := a.ensureLoaded(r, sess); err != nil {
		writeLoadError(w, err)
		return
	}

	result, _ := sess.Current()
	switch format := r.URL.Query().Get("format"); format {
	case "", "srt":
		w.Header().Set("Content-Type", "application/x-subrip")
		fmt.Fprint(w, export.RenderSRT(result.Cues))
	case "vtt":
		w.Header().Set("Content-Type", "text/vtt")
		fmt.Fprint(w, export.RenderVTT(result.Cues))
	default:
		http.Error(w, fmt.Sprintf("unsupported export format %q", format), http.StatusBadRequest)
	}
}

func (a *API) handleImport(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("videoId")
	ext := r.URL.Query().Get("ext")
	if ext == "" {
		http.Error(w, "query parameter ext is required (srt or vtt)", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 8<<20))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	sess := a.sessionMgr.GetOrCreateSession(videoID)
	result, err := sess.Import(source.ImportedFile{Content: string(body), Extension: ext})
	if err != nil {
		writeLoadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("videoId")
	a.sessionMgr.GetOrCreateSession(videoID).Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}
