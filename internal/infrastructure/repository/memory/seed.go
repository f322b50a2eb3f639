package memory

import (
	"time"

	"github.com/riskibarqy/matchday/internal/domain/game"
	"github.com/riskibarqy/matchday/internal/domain/player"
	"github.com/riskibarqy/matchday/internal/domain/roster"
)

const GameIDSaturdayKickabout = "gm-sat-001"

func SeedPlayers() []player.Player {
	created := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	mk := func(id, name, email string, rating, points float64) player.Player {
		return player.Player{
			ID:        id,
			Name:      name,
			Email:     email,
			Rating:    rating,
			Points:    points,
			CreatedAt: created,
			UpdatedAt: created,
		}
	}
	return []player.Player{
		mk("pl-001", "Bima Sakti", "bima@matchday.dev", 8.5, 12),
		mk("pl-002", "Egy Maulana", "egy@matchday.dev", 8.0, 10.5),
		mk("pl-003", "Asnawi Mangkualam", "asnawi@matchday.dev", 7.5, 10),
		mk("pl-004", "Marc Klok", "klok@matchday.dev", 7.0, 9.5),
		mk("pl-005", "Pratama Arhan", "arhan@matchday.dev", 6.5, 8),
		mk("pl-006", "Witan Sulaeman", "witan@matchday.dev", 6.0, 7.5),
		mk("pl-007", "Rizky Ridho", "ridho@matchday.dev", 5.5, 6),
		mk("pl-008", "Ricky Kambuaya", "ricky@matchday.dev", roster.DefaultPlayerRating, 5),
		mk("pl-009", "Rachmat Irianto", "rachmat@matchday.dev", 4.5, 4.5),
		mk("pl-010", "Saddil Ramdani", "saddil@matchday.dev", 4.0, 3),
	}
}

func SeedGames() []game.Game {
	created := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	return []game.Game{
		{
			ID:        GameIDSaturdayKickabout,
			Kickoff:   time.Date(2026, 2, 14, 16, 0, 0, 0, time.UTC),
			Location:  "Lapangan Senayan",
			Status:    game.StatusUpcoming,
			CreatedAt: created,
			UpdatedAt: created,
		},
		{
			ID:        "gm-sun-001",
			Kickoff:   time.Date(2026, 2, 15, 8, 0, 0, 0, time.UTC),
			Location:  "GOR Soemantri",
			Status:    game.StatusUpcoming,
			CreatedAt: created,
			UpdatedAt: created,
		},
	}
}
