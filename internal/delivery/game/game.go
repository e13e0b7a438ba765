package game

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"baduk/internal/bootstrap"
	"baduk/internal/domain/game"
	errs "baduk/internal/errors"
	"baduk/internal/httpresponse"
	gameuc "baduk/internal/usecase/game"
	"baduk/internal/utils"
)

type GameHandler struct {
	cfg       bootstrap.Config
	log       *zap.SugaredLogger
	gameUC    *gameuc.GameUseCase
	locks     *gameLocks
	observers *observerHub
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type NewGameRequest struct {
	PlayerA string `json:"player_a"`
	PlayerB string `json:"player_b"`
	Size    int    `json:"size,omitempty"`
}

type MoveResponse struct {
	Outcome  string       `json:"outcome"`
	Reason   string       `json:"reason,omitempty"`
	Captured []game.Point `json:"captured,omitempty"`
	Game     game.Record  `json:"game"`
}

func NewGameHandler(cfg bootstrap.Config, log *zap.SugaredLogger, gameUC *gameuc.GameUseCase) *GameHandler {
	return &GameHandler{
		cfg:       cfg,
		log:       log,
		gameUC:    gameUC,
		locks:     newGameLocks(),
		observers: newObserverHub(log),
	}
}

func (g *GameHandler) Router(r chi.Router) {
	r.Route("/games", func(r chi.Router) {
		r.Post("/", g.HandleNewGame)
		r.Get("/{id}", g.HandleGetGame)
		r.Post("/{id}/moves", g.HandleMove)
		r.Post("/{id}/end", g.HandleEndGame)
		r.Get("/{id}/sgf", g.HandleSGF)
		r.Get("/{id}/obs", g.HandleObserve)
	})
}

func (g *GameHandler) HandleNewGame(w http.ResponseWriter, r *http.Request) {
	var req NewGameRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		g.log.Warnf("new game: %v", err)
		httpresponse.WriteErrorResponse(w, http.StatusBadRequest, httpresponse.MALFORMEDJSON_errorDesc+": "+err.Error())
		return
	}
	if req.Size == 0 {
		req.Size = g.cfg.DefaultBoardSize
	}

	play, err := g.gameUC.NewGame(r.Context(), req.PlayerA, req.PlayerB, req.Size)
	if err != nil {
		g.writeError(w, err)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, play.Record())
}

func (g *GameHandler) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	play, err := g.gameUC.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, play.Record())
}

// HandleMove applies one move. An illegal move answers 409 with the reason
// and the unchanged game, so the client can try again.
func (g *GameHandler) HandleMove(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")

	var req game.MoveRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		g.log.Warnf("move for game %s: %v", gameID, err)
		httpresponse.WriteErrorResponse(w, http.StatusBadRequest, httpresponse.MALFORMEDJSON_errorDesc+": "+err.Error())
		return
	}
	move, err := req.Move()
	if err != nil {
		g.writeError(w, err)
		return
	}

	unlock := g.locks.Lock(gameID)
	defer unlock()

	play, res, err := g.gameUC.NewMove(r.Context(), gameID, move)
	if err != nil {
		g.writeError(w, err)
		return
	}

	resp := MoveResponse{
		Outcome:  res.Outcome.String(),
		Captured: res.Captured.Points,
		Game:     play.Record(),
	}

	switch res.Outcome {
	case gameuc.OutcomeRejected:
		resp.Reason = res.Violation.String()
		httpresponse.WriteResponseWithStatus(w, http.StatusConflict, resp)
		return
	case gameuc.OutcomeAccepted, gameuc.OutcomeEnded:
		// still under the game lock, so observers see states in order
		g.observers.broadcast(gameID, resp.Game)
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, resp)
}

func (g *GameHandler) HandleEndGame(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")

	unlock := g.locks.Lock(gameID)
	defer unlock()

	play, err := g.gameUC.Terminate(r.Context(), gameID)
	if err != nil {
		g.writeError(w, err)
		return
	}

	rec := play.Record()
	g.observers.broadcast(gameID, rec)
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, rec)
}

func (g *GameHandler) HandleSGF(w http.ResponseWriter, r *http.Request) {
	text, err := g.gameUC.ExportSGF(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		g.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/x-go-sgf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

// HandleObserve streams the game record to a websocket, once on connect and
// again after every accepted move or end of game.
func (g *GameHandler) HandleObserve(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")

	// registration takes the game lock so the first state sent is not older
	// than a broadcast the observer already received
	unlock := g.locks.Lock(gameID)
	play, err := g.gameUC.GetGame(r.Context(), gameID)
	if err != nil {
		unlock()
		g.writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		unlock()
		g.log.Errorf("upgrade error: %v", err)
		return
	}

	obs := g.observers.add(gameID, conn)
	defer func() {
		g.observers.remove(gameID, obs)
		_ = conn.Close()
	}()

	err = obs.send(play.Record())
	unlock()
	if err != nil {
		g.log.Warnf("observer of game %s: %v", gameID, err)
		return
	}
	g.log.Infof("observer joined game %s", gameID)

	// observers only listen, reading just notices the close
	for {
		if _, _, err = conn.ReadMessage(); err != nil {
			g.log.Infof("observer left game %s: %v", gameID, err)
			return
		}
	}
}

func (g *GameHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrGameNotFound):
		httpresponse.WriteErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrMalformedMove), errors.Is(err, errs.ErrInvalidSize):
		httpresponse.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
	default:
		g.log.Error(err)
		httpresponse.WriteInternalErrorResponse(w)
	}
}
