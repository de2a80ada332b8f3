package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/campushq/studentdesk-backend/internal/config"
	"github.com/campushq/studentdesk-backend/internal/database"
	"github.com/campushq/studentdesk-backend/internal/logger"
	"github.com/campushq/studentdesk-backend/internal/model"
	"github.com/campushq/studentdesk-backend/internal/repository"
	"github.com/campushq/studentdesk-backend/internal/service"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	studentRepo := repository.NewStudentRepository(pool)
	studentService := service.NewStudentService(studentRepo, nil, log)

	fmt.Println("=== Seeding demo students ===")

	names := [][2]string{
		{"Olivia", "Tremblay"}, {"Liam", "Gagnon"}, {"Emma", "Roy"},
		{"Noah", "Bouchard"}, {"Charlotte", "Lavoie"}, {"William", "Fortin"},
		{"Amelia", "Gauthier"}, {"Benjamin", "Morin"}, {"Sophia", "Pelletier"},
		{"Lucas", "Bélanger"}, {"Ava", "Lévesque"}, {"Henry", "Bergeron"},
		{"Mia", "Leblanc"}, {"Jack", "Paquette"}, {"Isla", "Girard"},
		{"Ethan", "Simard"}, {"Grace", "Boucher"}, {"Owen", "Caron"},
		{"Chloe", "Beaulieu"}, {"Leo", "Cloutier"},
	}
	programs := []string{"Computer Science", "Mechanical Engineering", "Nursing", "Business Administration"}
	cities := []string{"Calgary", "Edmonton", "Toronto", "Vancouver"}
	provinces := []string{"AB", "AB", "ON", "BC"}
	postals := []string{"T2N 1N4", "T5J 0K7", "M5V 2T6", "V6B 1A1"}

	successCount := 0
	for i, n := range names {
		student := &model.Student{
			Email:         strings.ToLower(fmt.Sprintf("%s.%s%02d@example.edu", n[0], n[1], i+1)),
			FirstName:     n[0],
			LastName:      n[1],
			Phone:         fmt.Sprintf("403555%04d", i+1),
			StreetAddress: fmt.Sprintf("%d University Dr NW", 100+i),
			City:          cities[i%len(cities)],
			ProvinceState: provinces[i%len(provinces)],
			Country:       "Canada",
			PostalCode:    postals[i%len(postals)],
			Program:       programs[i%len(programs)],
			Year:          fmt.Sprintf("y%d", i%4+1), // normalized to Y1..Y4 on create
		}

		if err := studentService.Create(ctx, student); err != nil {
			if errors.Is(err, repository.ErrDuplicateEmail) {
				fmt.Printf("Skipping %s: already seeded\n", student.Email)
				continue
			}
			fmt.Printf("Error creating student %s: %v\n", student.Email, err)
			continue
		}
		successCount++
		if successCount%10 == 0 {
			fmt.Printf("Created %d students...\n", successCount)
		}
	}

	fmt.Printf("\nSeed completed! Successfully added %d/%d students.\n", successCount, len(names))
}
