package cli

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/PDG1999/tool-dashboard-samebi/internal/models"
	"github.com/PDG1999/tool-dashboard-samebi/internal/sources"
	"github.com/spf13/cobra"
)

func newSeedCmd(root *rootFlags) *cobra.Command {
	var (
		flagCount int
		flagSeed  int64
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write sample records into the local sqlite store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagCount < 0 {
				return fmt.Errorf("--count must not be negative")
			}
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			opened, err := sources.Open(cfg)
			if err != nil {
				return fmt.Errorf("opening record source: %w", err)
			}
			defer opened.Close()
			if opened.Repository == nil {
				return fmt.Errorf("seed needs RECORD_SOURCE=sqlite, got %s", cfg.RecordSource)
			}

			data := GenerateSample(rand.New(rand.NewSource(flagSeed)), flagCount, time.Now().UTC())

			ctx := cmd.Context()
			for _, c := range data.Counselors {
				if err := opened.Repository.InsertCounselor(ctx, c); err != nil {
					return fmt.Errorf("inserting counselor %s: %w", c.ID, err)
				}
			}
			for _, c := range data.Clients {
				if err := opened.Repository.InsertClient(ctx, c); err != nil {
					return fmt.Errorf("inserting client %s: %w", c.ID, err)
				}
			}
			if err := opened.Repository.InsertAssessmentBatch(ctx, data.Records); err != nil {
				return fmt.Errorf("inserting test results: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d counselors, %d clients, %d test results into %s\n",
				len(data.Counselors), len(data.Clients), len(data.Records), cfg.DBPath)
			return err
		},
	}

	cmd.Flags().IntVar(&flagCount, "count", 100, "Number of test results to generate")
	cmd.Flags().Int64Var(&flagSeed, "seed", time.Now().UnixNano(), "Random seed")
	return cmd
}

// Sample is a generated dataset for the local record store.
type Sample struct {
	Counselors []models.CounselorRecord
	Clients    []models.ClientRecord
	Records    []models.AssessmentRecord
}

var (
	sampleRisks    = []string{"Niedrig", "niedrig", "Mittel", "Hoch", "HOCH", "Kritisch", "", "unknown"}
	sampleCities   = []string{"Zürich", "Bern", "Basel", "Luzern", "Genf", "St. Gallen", "Winterthur", "Lugano", "Chur", "Thun", "Biel", "Aarau", ""}
	sampleDevices  = []string{"mobile", "desktop", "tablet", ""}
	sampleConcerns = []string{"Glücksspiel", "Alkohol", "Substanzen", "Kaufverhalten", "Digital"}
	sampleNames    = []string{"Mia Keller", "Jonas Huber", "Lea Meier", "Noah Frei", "Lina Baumann"}
)

// GenerateSample produces n test results spread over the last year, plus a
// few counselors and clients they are assigned to. About a third of the
// results are anonymous.
func GenerateSample(r *rand.Rand, n int, now time.Time) Sample {
	// Unique per run so repeated seeding does not collide on primary keys.
	prefix := fmt.Sprintf("s%x", r.Int63()&0xffffff)

	var s Sample
	for i, name := range sampleNames[:3] {
		s.Counselors = append(s.Counselors, models.CounselorRecord{
			ID:        fmt.Sprintf("%s-b%d", prefix, i+1),
			Name:      name,
			Email:     fmt.Sprintf("counselor%d@example.org", i+1),
			Role:      []string{"supervisor", "counselor", "counselor"}[i],
			IsActive:  i != 2,
			CreatedAt: now.AddDate(0, -6, 0),
		})
	}
	for i := 0; i < 8; i++ {
		counselor := s.Counselors[i%len(s.Counselors)].ID
		s.Clients = append(s.Clients, models.ClientRecord{
			ID:          fmt.Sprintf("%s-c%d", prefix, i+1),
			Name:        sampleNames[(i+3)%len(sampleNames)],
			Status:      "active",
			CounselorID: &counselor,
			CreatedAt:   now.AddDate(0, -3, i),
		})
	}

	for i := 0; i < n; i++ {
		rec := models.AssessmentRecord{
			ID:             fmt.Sprintf("%s-t%d", prefix, i+1),
			CreatedAt:      now.Add(-time.Duration(r.Int63n(int64(365 * 24 * time.Hour)))),
			RiskLevel:      sampleRisks[r.Intn(len(sampleRisks))],
			PrimaryConcern: sampleConcerns[r.Intn(len(sampleConcerns))],
			CategoryScores: map[string]float64{
				"gambling":   float64(r.Intn(101)),
				"alcohol":    float64(r.Intn(101)),
				"substances": float64(r.Intn(101)),
				"shopping":   float64(r.Intn(101)),
				"digital":    float64(r.Intn(101)),
			},
			Tracking: &models.TrackingData{
				City:       sampleCities[r.Intn(len(sampleCities))],
				Country:    "CH",
				DeviceType: sampleDevices[r.Intn(len(sampleDevices))],
			},
			CompletedQuestions: models.TotalQuestions,
		}
		if r.Intn(4) == 0 {
			q := 1 + r.Intn(models.TotalQuestions)
			rec.Aborted = true
			rec.AbortedAtQuestion = &q
			rec.CompletedQuestions = q - 1
		}
		if r.Intn(3) != 0 {
			client := s.Clients[r.Intn(len(s.Clients))]
			rec.ClientID = &client.ID
			rec.CounselorID = client.CounselorID
		}
		s.Records = append(s.Records, rec)
	}
	return s
}
