package web

import (
	"embed"
	"html/template"
	"io"
	"net/http"

	"github.com/Alias1177/CrashSignal/internal/checker"
	"github.com/Alias1177/CrashSignal/internal/history"
	"github.com/Alias1177/CrashSignal/internal/render"
	"github.com/Alias1177/CrashSignal/internal/signal"
	"github.com/Alias1177/CrashSignal/models"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer renders the embedded HTML templates for echo.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() *Renderer {
	return &Renderer{templates: template.Must(template.ParseFS(templateFS, "templates/*.html"))}
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// SignalRequest is the JSON body of POST /api/v1/signal. Either the raw
// history text or an already parsed list of values is accepted.
type SignalRequest struct {
	History string    `json:"history" validate:"required_without=Values,max=200000"`
	Values  []float64 `json:"values" validate:"required_without=History,max=10000"`
	Format  string    `json:"format" default:"json" validate:"oneof=json text"`
}

// SignalResponse is the data of a successful check.
type SignalResponse struct {
	ID         string             `json:"id"`
	Rounds     int                `json:"rounds"`
	Verdict    models.Verdict     `json:"verdict"`
	Commentary *models.Commentary `json:"commentary,omitempty"`
	Notice     string             `json:"notice,omitempty"`
	Blocks     []render.Block     `json:"blocks"`
}

type pageData struct {
	Window  int
	History string
	Blocks  []render.Block
	Caption string
}

// Handler serves the signal checker page and API
type Handler struct {
	svc    *checker.Service
	logger zerolog.Logger
}

// NewHandler creates the web handler
func NewHandler(svc *checker.Service) *Handler {
	return &Handler{
		svc:    svc,
		logger: log.With().Str("component", "web_handler").Logger(),
	}
}

// RegisterRoutes mounts the page, the JSON API and the health check.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Index)
	e.POST("/check", h.Check)
	e.GET("/healthz", h.Health)

	g := e.Group("/api/v1")
	g.POST("/signal", h.Signal)
}

// Index renders the empty form.
func (h *Handler) Index(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", newPage("", nil))
}

// Check handles the form submit and renders the verdict and commentary.
func (h *Handler) Check(c echo.Context) error {
	raw := c.FormValue("history")

	out, err := h.svc.Check(c.Request().Context(), checker.SourceWeb, raw)
	if err != nil {
		return c.Render(http.StatusOK, "index.html", newPage(raw, []render.Block{render.Rejection(err)}))
	}
	return c.Render(http.StatusOK, "index.html", newPage(raw, render.Outcome(out)))
}

// Signal is the JSON API equivalent of Check.
func (h *Handler) Signal(c echo.Context) error {
	req := &SignalRequest{}
	if verrs := ReadAndValidateRequest(c, req); verrs != nil {
		return BadRequestResponse(c, verrs)
	}

	ctx := c.Request().Context()
	var (
		out *checker.Outcome
		err error
	)
	switch {
	case req.History != "":
		out, err = h.svc.Check(ctx, checker.SourceAPI, req.History)
	case len(req.Values) > 0:
		out = h.svc.CheckValues(ctx, checker.SourceAPI, req.Values)
	default:
		err = history.ErrEmptyInput
	}
	if err != nil {
		return BadRequestResponse(c, []ValidationError{{
			Code:    "ERR_INPUT",
			Field:   "History",
			Message: render.Rejection(err).Body,
		}})
	}

	blocks := render.Outcome(out)
	if req.Format == "text" {
		return c.String(http.StatusOK, render.Text(blocks))
	}

	resp := SignalResponse{
		ID:      out.ID,
		Rounds:  len(out.History),
		Verdict: out.Verdict,
		Notice:  out.Notice,
		Blocks:  blocks,
	}
	if out.CommentaryShown() {
		commentary := out.Commentary
		resp.Commentary = &commentary
	}
	return SuccessResponse(c, resp)
}

// Health reports liveness.
func (h *Handler) Health(c echo.Context) error {
	return SuccessResponse(c, map[string]string{"status": "ok"})
}

func newPage(raw string, blocks []render.Block) pageData {
	return pageData{
		Window:  signal.SafeHighWindow,
		History: raw,
		Blocks:  blocks,
		Caption: render.Caption,
	}
}
