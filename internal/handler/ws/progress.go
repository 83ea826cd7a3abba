package ws

import (
	"net/http"
	"time"

	models "RugScan/internal/domain/models"
	"RugScan/internal/usecase"
	xlogger "RugScan/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const writeTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ProgressHandler streams analysis progress over a websocket. The client
// sends one AnalyzeRequest as JSON and receives progress events followed by
// the final result or an error.
type ProgressHandler struct {
	logger *xlogger.Logger
	uc     *usecase.AnalysisUseCase
}

func NewProgressHandler(logger *xlogger.Logger, uc *usecase.AnalysisUseCase) *ProgressHandler {
	return &ProgressHandler{logger: logger, uc: uc}
}

func (h *ProgressHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/analyze", h.Analyze)
}

type event struct {
	Type    string `json:"type"`
	Stage   string `json:"stage,omitempty"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func (h *ProgressHandler) Analyze(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	req := &models.AnalyzeRequest{}
	if err := conn.ReadJSON(req); err != nil {
		h.send(conn, event{Type: "error", Message: "invalid request: " + err.Error()})
		return nil
	}
	if req.Chain == "" {
		req.Chain = "ethereum"
	}

	// Progress events come from pipeline goroutines; serialize writes
	// through a channel since gorilla connections allow one writer.
	events := make(chan event, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range events {
			h.send(conn, ev)
		}
	}()

	progress := func(stage, message string) {
		select {
		case events <- event{Type: "progress", Stage: stage, Message: message}:
		default:
		}
	}

	res, err := h.uc.Analyze(c.Request().Context(), req, progress)
	if err != nil {
		events <- event{Type: "error", Message: err.Error()}
	} else {
		events <- event{Type: "result", Data: res}
	}
	close(events)
	<-done
	return nil
}

func (h *ProgressHandler) send(conn *websocket.Conn, ev event) {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(ev); err != nil {
		h.logger.Debug("websocket write failed", xlogger.Error(err))
	}
}
