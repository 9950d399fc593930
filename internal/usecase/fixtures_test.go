package usecase

import (
	"github.com/riskibarqy/fpl-advisor/internal/domain/player"
)

func testCandidate(id int64, name string, pos player.Position, clubID int64, cost player.Cost) player.Candidate {
	return player.Candidate{
		ID:       id,
		Name:     name,
		Cost:     cost,
		Position: pos,
		ClubID:   clubID,
		ClubName: "Club",
	}
}

// testSquadCandidates is a legal 15-man squad in selection order.
func testSquadCandidates() []player.Candidate {
	return []player.Candidate{
		testCandidate(1, "Raya", player.PositionGoalkeeper, 1, 55),
		testCandidate(2, "Flekken", player.PositionGoalkeeper, 2, 45),
		testCandidate(3, "Saliba", player.PositionDefender, 1, 60),
		testCandidate(4, "Gvardiol", player.PositionDefender, 3, 60),
		testCandidate(5, "Porro", player.PositionDefender, 4, 55),
		testCandidate(6, "Mykolenko", player.PositionDefender, 5, 45),
		testCandidate(7, "Lewis", player.PositionDefender, 6, 40),
		testCandidate(8, "Salah", player.PositionMidfielder, 7, 130),
		testCandidate(9, "Palmer", player.PositionMidfielder, 8, 105),
		testCandidate(10, "Mbeumo", player.PositionMidfielder, 2, 75),
		testCandidate(11, "Gordon", player.PositionMidfielder, 9, 75),
		testCandidate(12, "Winks", player.PositionMidfielder, 10, 45),
		testCandidate(13, "Haaland", player.PositionForward, 3, 150),
		testCandidate(14, "Wissa", player.PositionForward, 2, 60),
		testCandidate(15, "Archer", player.PositionForward, 11, 45),
	}
}

// testPool is the squad plus a few extra candidates that are not picked.
func testPool() []player.Candidate {
	return append(testSquadCandidates(),
		testCandidate(16, "Sanchez", player.PositionGoalkeeper, 12, 45),
		testCandidate(17, "Timber", player.PositionDefender, 1, 55),
		testCandidate(18, "Odegaard", player.PositionMidfielder, 1, 85),
		testCandidate(19, "Isak", player.PositionForward, 9, 85),
	)
}
