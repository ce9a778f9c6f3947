// Command seed 清空資料表後載入範例類型、電影、顧客與租借
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"vidly/internal/config"
	"vidly/internal/database"
	"vidly/internal/logging"
	"vidly/internal/model"
	"vidly/internal/store"

	"github.com/sirupsen/logrus"
)

type movieSeed struct {
	title   string
	inStock int
	rate    float64
}

var catalog = []struct {
	genre  string
	movies []movieSeed
}{
	{"Comedy", []movieSeed{{"Austin Powers", 5, 2}, {"Modern Times", 5, 2}, {"Office Space", 15, 2}}},
	{"Action", []movieSeed{{"Aliens", 5, 2}, {"Terminator", 10, 2}, {"Tomb Raider", 15, 2}}},
	{"Indie", []movieSeed{{"Happy Go Lucky", 5, 2}, {"Kajillionaire", 10, 2}, {"Portrait Of A Lady On Fire", 15, 2}}},
	{"Horror", []movieSeed{{"Get Out", 5, 2}, {"Let The Right One In", 15, 2}, {"Night Of The Living Dead", 10, 2}}},
}

var customers = []model.Customer{
	{Name: "Sallie Smith", Phone: "555-555-5555"},
	{Name: "Dan Donnovan", Phone: "333-333-3333", IsGold: true},
	{Name: "Wendy Wilkins", Phone: "777-777-7777", IsGold: true},
}

// users 不清，保留既有帳號
var tables = []string{"rentals", "movies", "genres", "customers"}

var (
	loadConfig      = config.Load
	newLogger       = logging.New
	newPgxPool      = database.NewPgxPool
	runMigrationsFn = database.RunMigrations
	createGenre     = store.CreateGenre
	createMovie     = store.CreateMovie
	createCustomer  = store.CreateCustomer
	checkout        = store.Checkout
	timeNow         = time.Now
	exitFunc        = os.Exit
)

func truncate(ctx context.Context, db database.DB) error {
	for _, t := range tables {
		if _, err := db.Exec(ctx, "DELETE FROM "+t); err != nil {
			return fmt.Errorf("clear %s: %w", t, err)
		}
	}
	return nil
}

// seed 每位顧客各借出一部電影，庫存照常扣減
func seed(ctx context.Context, db database.DB, log logrus.FieldLogger) error {
	if err := truncate(ctx, db); err != nil {
		return err
	}

	var movies []*model.Movie
	for _, entry := range catalog {
		g, err := createGenre(ctx, db, &model.Genre{Name: strings.ToLower(entry.genre)})
		if err != nil {
			return fmt.Errorf("genre %s: %w", entry.genre, err)
		}
		for _, ms := range entry.movies {
			m, err := createMovie(ctx, db, &model.Movie{
				Title:           ms.title,
				Genre:           *g,
				NumberInStock:   ms.inStock,
				DailyRentalRate: ms.rate,
			})
			if err != nil {
				return fmt.Errorf("movie %s: %w", ms.title, err)
			}
			movies = append(movies, m)
		}
	}

	for i := range customers {
		c := customers[i]
		created, err := createCustomer(ctx, db, &c)
		if err != nil {
			return fmt.Errorf("customer %s: %w", c.Name, err)
		}
		if _, err := checkout(ctx, db, created.ID, movies[i].ID, timeNow()); err != nil {
			return fmt.Errorf("rental for %s: %w", c.Name, err)
		}
	}

	log.WithFields(logrus.Fields{
		"genres":    len(catalog),
		"movies":    len(movies),
		"customers": len(customers),
	}).Info("seed data loaded")
	return nil
}

func run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %w", err)
	}
	db, err := newPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %w", err)
	}
	defer db.Close()
	return seed(ctx, db, log)
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitFunc(1)
	}
}
