// Command seed fills the cutoff store with synthetic multi-year data for
// local runs and manual testing.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/joho/godotenv"

	"github.com/svyas/admitcast/internal/adapters/repository"
	"github.com/svyas/admitcast/internal/domain/types"
	"github.com/svyas/admitcast/pkg/logger"
)

// Generation constants.
const (
	defaultSeed       = 42
	nullRankFraction  = 0.03 // fraction of rows with a missing closing rank
	yearDriftFraction = 0.08 // max relative year-over-year cutoff drift
	roundWidening     = 0.06 // relative widening of the cutoff per extra round
)

type program struct {
	institute     string
	instituteType string
	name          string
	baseClosing   int
}

// programs is a small synthetic catalog spanning all institute categories.
var programs = []program{
	{"Indian Institute of Technology Bombay", "IIT", "Computer Science and Engineering", 70},
	{"Indian Institute of Technology Delhi", "IIT", "Computer Science and Engineering", 120},
	{"Indian Institute of Technology Madras", "IIT", "Electrical Engineering", 900},
	{"Indian Institute of Technology Kanpur", "IIT", "Mechanical Engineering", 2600},
	{"National Institute of Technology Tiruchirappalli", "NIT", "Computer Science and Engineering", 1200},
	{"National Institute of Technology Warangal", "NIT", "Electronics and Communication Engineering", 3400},
	{"National Institute of Technology Surathkal", "NIT", "Mechanical Engineering", 9800},
	{"Indian Institute of Information Technology Allahabad", "IIIT", "Information Technology", 4900},
	{"Indian Institute of Information Technology Gwalior", "IIIT", "Computer Science and Engineering", 7600},
	{"Birla Institute of Technology Mesra", "GFTI", "Computer Science and Engineering", 16000},
	{"School of Planning and Architecture Delhi", "GFTI", "Architecture", 28000},
}

var quotas = []string{"AI", "HS"}
var seatTypes = []string{"OPEN", "EWS", "OBC-NCL", "SC", "ST"}
var genders = []string{"Gender-Neutral", "Female-only (including Supernumerary)"}

func main() {
	var (
		dsn     = flag.String("dsn", "", "postgres DSN (defaults to $ADMITCAST_DATABASE_URL)")
		years   = flag.Int("years", 5, "number of admission years to generate, ending at -last-year")
		lastYr  = flag.Int("last-year", 2024, "most recent admission year")
		rounds  = flag.Int("rounds", 6, "rounds per year")
		rngSeed = flag.Int64("seed", defaultSeed, "rng seed (deterministic by default)")
	)
	flag.Parse()

	_ = godotenv.Load()
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get().Named("seed")
	ctx := context.Background()

	url := *dsn
	if url == "" {
		url = os.Getenv("ADMITCAST_DATABASE_URL")
	}
	if url == "" {
		log.Fatal(ctx, "no DSN: pass -dsn or set ADMITCAST_DATABASE_URL")
	}

	store, err := repository.NewPostgresStore(ctx, url)
	if err != nil {
		log.Fatal(ctx, "open store failed", logger.Error(err))
	}
	defer store.Close()

	rows := generate(rand.New(rand.NewSource(*rngSeed)), *years, *lastYr, *rounds)
	if err := store.Insert(ctx, rows); err != nil {
		log.Fatal(ctx, "insert failed", logger.Error(err))
	}
	log.Info(ctx, "seeded cutoff rows",
		logger.Int("rows", len(rows)),
		logger.Int("years", *years),
		logger.Int("rounds", *rounds),
	)
}

// generate produces one row per (program, quota, seat type, gender, year,
// round). Cutoffs drift between years, widen with each extra round, and a
// small fraction of rows get a null closing rank to mimic malformed source
// data.
func generate(rng *rand.Rand, years, lastYear, rounds int) []types.CutoffRecord {
	var rows []types.CutoffRecord
	for _, p := range programs {
		for qi, quota := range quotas {
			for si, seat := range seatTypes {
				for gi, gender := range genders {
					// Reserved seats and the HS quota close at larger ranks.
					base := float64(p.baseClosing) * (1 + float64(si)*1.7) * (1 + float64(qi)*0.35) * (1 + float64(gi)*0.5)
					for y := 0; y < years; y++ {
						year := lastYear - (years - 1) + y
						drift := 1 + (rng.Float64()*2-1)*yearDriftFraction
						base *= drift
						for round := 1; round <= rounds; round++ {
							closing := int(base * (1 + float64(round-1)*roundWidening))
							if closing < 1 {
								closing = 1
							}
							opening := closing - closing/4
							if opening < 1 {
								opening = 1
							}
							rec := types.CutoffRecord{
								Key: types.ProgramKey{
									Institute: p.institute,
									Program:   p.name,
									Quota:     quota,
									SeatType:  seat,
									Gender:    gender,
								},
								InstituteType: p.instituteType,
								Year:          year,
								Round:         round,
								OpeningRank:   types.IntPtr(opening),
								ClosingRank:   types.IntPtr(closing),
							}
							if rng.Float64() < nullRankFraction {
								rec.ClosingRank = nil
							}
							rows = append(rows, rec)
						}
					}
				}
			}
		}
	}
	fmt.Fprintf(os.Stderr, "generated %d rows for %d programs\n", len(rows), len(programs))
	return rows
}
