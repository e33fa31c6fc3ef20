package nakama

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"domino/internal/app"
	"domino/internal/config"
	"domino/internal/domain"
	"domino/internal/ports"
)

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Seats        [domain.Seats]string        `json:"seats"`          // user IDs, empty string means seat is empty
	OwnerSeat    int                         `json:"owner_seat"`     // seat index of the match owner, -1 when nobody is seated
	Tick         int64                       `json:"tick"`           // current tick of the match
	Seed         int64                       `json:"seed"`           // shuffle seed, logged so games can be replayed
	NextTurnTick int64                       `json:"next_turn_tick"` // autoplay: tick when the pending turn resolves, 0 when unscheduled
	Config       config.GameConfig           `json:"-"`
	Presences    map[string]runtime.Presence `json:"-"` // map UserId -> Presence for targeted messaging
	App          *app.Service                `json:"-"` // domino app service with game logic
	Game         *domain.Game                `json:"-"` // current game (nil while in lobby)
	Records      ports.RecordPort            `json:"-"` // finished game storage, nil disables it
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetOccupiedSeatCount() int {
	return len(ms.Seats) - ms.GetOpenSeatsCount()
}

// seatOf returns the seat held by userID or -1.
func (ms *MatchState) seatOf(userID string) int {
	for i, seat := range ms.Seats {
		if seat != "" && seat == userID {
			return i
		}
	}
	return -1
}

// findFirstOccupiedSeat returns the first seat index with an occupant or -1 if none exist.
func findFirstOccupiedSeat(seats []string) int {
	for i, userID := range seats {
		if userID != "" {
			return i
		}
	}
	return -1
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// newMatchState builds lobby state for cfg, shuffling with seed.
func newMatchState(cfg config.GameConfig, seed int64, records ports.RecordPort) *MatchState {
	return &MatchState{
		OwnerSeat: -1,
		Seed:      seed,
		Config:    cfg,
		Presences: make(map[string]runtime.Presence),
		App:       app.NewService(rand.New(rand.NewSource(seed)), cfg.Rules()),
		Records:   records,
	}
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	cfg := config.GetGameConfig()

	seed := cfg.ResolveSeed()
	if v, ok := params["seed"]; ok {
		switch s := v.(type) {
		case int64:
			seed = s
		case int:
			seed = int64(s)
		case float64:
			seed = int64(s)
		default:
			logger.Warn("MatchInit: Ignoring seed param of type %T", v)
		}
	}

	var records ports.RecordPort
	if cfg.SaveResults && nk != nil {
		records = NewNakamaRecordAdapter(nk)
	}

	state := newMatchState(cfg, seed, records)
	logger.Info("MatchInit: seed=%d hand_size=%d draw_when_blocked=%v autoplay=%v", state.Seed, cfg.HandSize, cfg.DrawWhenBlocked, cfg.Autoplay)

	label, err := matchLabel(state.GetOpenSeatsCount(), "lobby")
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1
	return state, tickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Seated players may always come back.
	if matchState.seatOf(presence.GetUserId()) >= 0 {
		return state, true, ""
	}
	if matchState.Game != nil {
		return state, false, "Game in progress"
	}
	if matchState.GetOpenSeatsCount() <= 0 {
		return state, false, "Match full"
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	var rejoined []string
	for _, p := range presences {
		userID := p.GetUserId()
		matchState.Presences[userID] = p

		if seat := matchState.seatOf(userID); seat >= 0 {
			logger.Debug("MatchJoin: User %s rejoined seat %d.", userID, seat)
			rejoined = append(rejoined, userID)
			continue
		}

		assigned := false
		for i, seatUserID := range matchState.Seats {
			if seatUserID == "" {
				matchState.Seats[i] = userID
				assigned = true
				break
			}
		}
		if !assigned {
			logger.Warn("MatchJoin: User %s joined but no seat was available.", userID)
		}
	}

	if matchState.OwnerSeat < 0 || matchState.Seats[matchState.OwnerSeat] == "" {
		matchState.OwnerSeat = findFirstOccupiedSeat(matchState.Seats[:])
		if matchState.OwnerSeat >= 0 {
			logger.Debug("MatchJoin: Owner set to seat %d.", matchState.OwnerSeat)
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(matchState, dispatcher, logger)

	// A returning player needs their hand again.
	if matchState.Game != nil {
		for _, userID := range rejoined {
			if pl := matchState.Game.PlayerBySeat(matchState.seatOf(userID)); pl != nil {
				mh.send(matchState, dispatcher, logger, handMessage(pl.Seat, pl.Hand.Tiles(), []string{userID}))
			}
		}
	}

	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		delete(matchState.Presences, userID)

		seat := matchState.seatOf(userID)
		if seat < 0 {
			continue
		}
		// Seats stay reserved while a game runs so the player can reconnect.
		if matchState.Game == nil {
			matchState.Seats[seat] = ""
			logger.Debug("MatchLeave: User %s left, seat %d freed.", userID, seat)
		} else {
			logger.Debug("MatchLeave: User %s left mid-game, seat %d kept.", userID, seat)
		}
	}

	if len(matchState.Presences) == 0 {
		logger.Info("MatchLeave: Terminating match with nobody connected.")
		return nil
	}

	if matchState.OwnerSeat < 0 || matchState.Seats[matchState.OwnerSeat] == "" {
		matchState.OwnerSeat = findFirstOccupiedSeat(matchState.Seats[:])
		logger.Debug("MatchLeave: Owner set to seat %d.", matchState.OwnerSeat)
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
		case OpTakeTurn:
			mh.handleTakeTurn(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if matchState.Config.Autoplay {
		mh.processAutoplay(ctx, matchState, dispatcher, logger)
	}

	return matchState
}

// processAutoplay resolves the pending turn once TurnDelayTicks have passed.
func (mh *matchHandler) processAutoplay(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Game == nil || state.Game.Phase != domain.PhasePlaying {
		state.NextTurnTick = 0
		return
	}

	if state.NextTurnTick == 0 {
		state.NextTurnTick = state.Tick + int64(state.Config.TurnDelayTicks)
		logger.Debug("processAutoplay: Seat %d will act at tick %d (current %d)", state.Game.CurrentTurn, state.NextTurnTick, state.Tick)
		return
	}
	if state.Tick < state.NextTurnTick {
		return
	}

	state.NextTurnTick = 0
	events, err := state.App.Step(state.Game)
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
	if err != nil {
		mh.failGame(state, dispatcher, logger, err)
	}
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := state.seatOf(senderID)

	logger.Info("StartGame: Request received from %s (seat=%d, owner_seat=%d, occupied=%d)", senderID, senderSeat, state.OwnerSeat, state.GetOccupiedSeatCount())

	if _, err := decodePayload(msg.GetData()); err != nil {
		logger.Warn("StartGame: Invalid request from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadRequest, err.Error())
		return
	}

	if senderSeat < 0 || senderSeat != state.OwnerSeat {
		logger.Warn("StartGame: User %s tried to start game but is not owner (owner_seat=%d)", senderID, state.OwnerSeat)
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadRequest, "only the match owner can start the game")
		return
	}
	if state.Game != nil {
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadRequest, "game already running")
		return
	}

	activeCount := state.GetOccupiedSeatCount()
	if activeCount < app.MinPlayersToStartGame {
		logger.Warn("StartGame: Cannot start with %d players. Need %d.", activeCount, app.MinPlayersToStartGame)
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadRequest, app.ErrTooFewPlayers.Error())
		return
	}

	game, events, err := state.App.StartGame(state.Seats)
	if err != nil {
		logger.Error("StartGame: Failed to start game: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadRequest, err.Error())
		return
	}

	state.Game = game
	state.NextTurnTick = 0
	mh.updateLabel(state, dispatcher, logger)
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)

	logger.Info("StartGame: Game %s started (seed=%d).", game.ID, state.Seed)
}

func (mh *matchHandler) handleTakeTurn(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := state.seatOf(senderID)

	if state.Game == nil {
		logger.Warn("handleTakeTurn: Game not started.")
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadRequest, app.ErrNotPlaying.Error())
		return
	}

	events, err := state.App.TakeTurn(state.Game, senderSeat)
	if err != nil && len(events) == 0 {
		logger.Warn("handleTakeTurn: User %s (seat %d) failed to take turn: %v", senderID, senderSeat, err)
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadRequest, err.Error())
		return
	}

	state.NextTurnTick = 0
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
	if err != nil {
		mh.failGame(state, dispatcher, logger, err)
	}
}

// dispatchEvents sends every event and closes out the game when it ends.
func (mh *matchHandler) dispatchEvents(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
		if p, ok := ev.Payload.(app.GameEndedPayload); ok {
			mh.finishGame(ctx, state, dispatcher, logger, p)
		}
	}
}

// broadcastEvent handles the conversion and dispatching of app events to Nakama.
func (mh *matchHandler) broadcastEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	msgs := eventMessages(ev, state.Seats)
	if len(msgs) == 0 {
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}
	for _, m := range msgs {
		mh.send(state, dispatcher, logger, m)
	}
}

func (mh *matchHandler) send(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, m outbound) {
	data, err := encodePayload(m.fields)
	if err != nil {
		logger.Error("Failed to marshal message %d: %v", m.opCode, err)
		return
	}

	var recipients []runtime.Presence
	if len(m.recipients) > 0 {
		for _, uid := range m.recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}
		// Targeted messages must never fall back to a broadcast.
		if len(recipients) == 0 {
			return
		}
	}

	if err := dispatcher.BroadcastMessage(m.opCode, data, recipients, nil, true); err != nil {
		logger.Error("Failed to send message %d: %v", m.opCode, err)
	}
}

// finishGame stores the result and returns the match to the lobby.
func (mh *matchHandler) finishGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, p app.GameEndedPayload) {
	logger.Info("Game %s ended: pips=%v winner_seat=%d tie=%v turns=%d", p.GameID, p.Pips, p.WinnerSeat, p.Tie, p.TurnsPlayed)

	if state.Records != nil {
		rec := ports.GameRecord{
			GameID:      p.GameID,
			Players:     append([]string(nil), state.Seats[:]...),
			Pips:        p.Pips[:],
			WinnerSeat:  p.WinnerSeat,
			Tie:         p.Tie,
			BlockedSeat: p.BlockedSeat,
			Turns:       p.TurnsPlayed,
			Seed:        state.Seed,
			FinishedAt:  time.Now().UTC(),
		}
		if err := state.Records.SaveResult(ctx, rec); err != nil {
			logger.Error("Failed to save result for game %s: %v", p.GameID, err)
		}
	}

	mh.resetToLobby(state, dispatcher, logger)
}

// failGame aborts a game whose state can no longer be trusted.
func (mh *matchHandler) failGame(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, err error) {
	if state.Game == nil {
		return
	}
	code := errCodeBadRequest
	if errors.Is(err, domain.ErrInvariantViolation) {
		code = errCodeInternal
	}
	logger.Error("Game %s aborted: %v", state.Game.ID, err)
	for _, userID := range state.Seats {
		if userID != "" {
			mh.sendError(state, dispatcher, logger, userID, code, err.Error())
		}
	}
	mh.resetToLobby(state, dispatcher, logger)
}

func (mh *matchHandler) resetToLobby(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	state.Game = nil
	state.NextTurnTick = 0
	// Players who dropped during the game give their seats back now.
	for i, userID := range state.Seats {
		if _, ok := state.Presences[userID]; userID != "" && !ok {
			state.Seats[i] = ""
		}
	}
	if state.OwnerSeat < 0 || state.Seats[state.OwnerSeat] == "" {
		state.OwnerSeat = findFirstOccupiedSeat(state.Seats[:])
	}
	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastMatchState(state, dispatcher, logger)
}

func (mh *matchHandler) broadcastMatchState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	players := make([]interface{}, 0, len(state.Seats))
	for i, userID := range state.Seats {
		if userID == "" {
			continue
		}

		displayName := userID
		_, connected := state.Presences[userID]
		if p, ok := state.Presences[userID]; ok && p.GetUsername() != "" {
			displayName = p.GetUsername()
		}

		tilesRemaining := 0
		if state.Game != nil {
			if pl := state.Game.PlayerBySeat(i); pl != nil {
				tilesRemaining = pl.Hand.Len()
			}
		}

		players = append(players, map[string]interface{}{
			"user_id":         userID,
			"seat":            i,
			"is_owner":        i == state.OwnerSeat,
			"display_name":    displayName,
			"connected":       connected,
			"tiles_remaining": tilesRemaining,
		})
	}

	seats := make([]interface{}, len(state.Seats))
	for i, userID := range state.Seats {
		seats[i] = userID
	}

	fields := map[string]interface{}{
		"seats":      seats,
		"owner_seat": state.OwnerSeat,
		"tick":       state.Tick,
		"players":    players,
		"state":      labelState(state),
	}
	if state.Game != nil {
		fields["game_id"] = state.Game.ID
		fields["current_turn"] = state.Game.CurrentTurn
		fields["tail"] = state.Game.Table.Tail
		fields["head"] = state.Game.Table.Head
		fields["pile_size"] = state.Game.Pile.Len()
		fields["played"] = tilesValue(state.Game.Table.Played())
	}

	mh.send(state, dispatcher, logger, outbound{opCode: OpMatchState, fields: fields})
}

// sendError sends an OpGameError message to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	if _, ok := state.Presences[userID]; !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}
	mh.send(state, dispatcher, logger, outbound{
		opCode:     OpGameError,
		fields:     map[string]interface{}{"code": code, "message": message},
		recipients: []string{userID},
	})
}

func labelState(state *MatchState) string {
	if state.Game != nil {
		return "playing"
	}
	return "lobby"
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := matchLabel(state.GetOpenSeatsCount(), labelState(state))
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminating with %d seconds of grace", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
