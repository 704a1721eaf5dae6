package local

import "github.com/promopulse/promopulse/pkg/models"

// Seed data returned for promoters and floors before the first write.
// It mirrors the initial roster the tracker shipped with, so a fresh
// deployment has something to demonstrate against.

func seedPromoters() []models.Promoter {
	return []models.Promoter{
		{ID: "p1", Name: "Alice Johnson", AssignedFloors: []string{"Ground Floor - Main Entrance"}},
		{ID: "p2", Name: "Bob Smith", AssignedFloors: []string{"1st Floor - Food Court"}},
		{ID: "p3", Name: "Charlie Davis", AssignedFloors: []string{"2nd Floor - Arcade Zone", "3rd Floor - Cinema Lobby"}},
	}
}

func seedFloors() []models.Floor {
	return []models.Floor{
		{ID: "f1", Name: "Ground Floor - Main Entrance"},
		{ID: "f2", Name: "1st Floor - Food Court"},
		{ID: "f3", Name: "2nd Floor - Arcade Zone"},
		{ID: "f4", Name: "3rd Floor - Cinema Lobby"},
	}
}
