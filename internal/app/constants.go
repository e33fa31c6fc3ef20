package app

import "domino/internal/domain"

// MinPlayersToStartGame defines the number of occupied seats required to start a game.
const MinPlayersToStartGame = domain.Seats
