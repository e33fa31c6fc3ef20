package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"

	// MatchNameDomino is the authoritative match handler name registered with Nakama.
	MatchNameDomino = "domino_match"

	// MatchLabelKeyOpenSeats is the label field holding the number of free seats.
	MatchLabelKeyOpenSeats = "open"

	// matchGameLabel identifies our matches among everything else running on the node.
	matchGameLabel = "domino"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame int64 = 1
	OpTakeTurn  int64 = 2

	// Server -> Client events
	OpMatchState  int64 = 101
	OpGameStarted int64 = 102
	OpHandDealt   int64 = 103 // send privately
	OpTurnStarted int64 = 104
	OpTilePlayed  int64 = 105
	OpTilesDrawn  int64 = 106
	OpTurnPassed  int64 = 107
	OpTurnEnded   int64 = 108
	OpGameEnded   int64 = 109
	OpGameError   int64 = 110 // send privately
)

// Error codes carried by OpGameError.
const (
	errCodeBadRequest = 400
	errCodeInternal   = 500
)
