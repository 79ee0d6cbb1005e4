package seed

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/ArnavKarwa07/Automated-EDA/internal/dataset"
	"github.com/ArnavKarwa07/Automated-EDA/internal/logger"
	"github.com/ArnavKarwa07/Automated-EDA/internal/models"
	"github.com/ArnavKarwa07/Automated-EDA/internal/storage"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db    *gorm.DB
	store storage.Store
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, store storage.Store) *Seeder {
	_ = gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db, store: store}
}

// SeedDev seeds the development database with demo users and synthetic
// CSV datasets they can profile and build dashboards from
func (s *Seeder) SeedDev(ctx context.Context) error {
	logger.Log.Info("Creating users...")
	users, err := s.seedUsers(10)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	logger.Log.Info("Creating datasets...")
	if err := s.seedDatasets(ctx, users, 3); err != nil {
		return fmt.Errorf("failed to seed datasets: %w", err)
	}

	return nil
}

// SeedTest seeds the test database with a single known account
func (s *Seeder) SeedTest(ctx context.Context) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("testpassword123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := models.User{
		Email:        "test@example.com",
		Username:     "testuser",
		FullName:     "Test User",
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.db.Where("email = ?", user.Email).FirstOrCreate(&user).Error; err != nil {
		return fmt.Errorf("failed to create test user: %w", err)
	}

	return s.seedDatasets(ctx, []models.User{user}, 1)
}

// Clean removes all seed data (use with caution!)
func (s *Seeder) Clean() error {
	// Delete in reverse order of dependencies
	if err := s.db.Exec("DELETE FROM dashboards").Error; err != nil {
		return fmt.Errorf("failed to clean dashboards: %w", err)
	}
	if err := s.db.Exec("DELETE FROM analysis_runs").Error; err != nil {
		return fmt.Errorf("failed to clean analysis_runs: %w", err)
	}
	if err := s.db.Exec("DELETE FROM datasets").Error; err != nil {
		return fmt.Errorf("failed to clean datasets: %w", err)
	}
	if err := s.db.Exec("DELETE FROM password_resets").Error; err != nil {
		return fmt.Errorf("failed to clean password_resets: %w", err)
	}
	if err := s.db.Exec("DELETE FROM users").Error; err != nil {
		return fmt.Errorf("failed to clean users: %w", err)
	}
	return nil
}

// seedUsers creates users with realistic data
func (s *Seeder) seedUsers(count int) ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var users []models.User
	for i := 0; i < count; i++ {
		user := models.User{
			Email:        gofakeit.Email(),
			Username:     fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(10, 99)),
			FullName:     gofakeit.Name(),
			PasswordHash: string(hash),
			IsActive:     true,
		}
		if err := s.db.Create(&user).Error; err != nil {
			logger.Log.Warn("Failed to create seed user", zap.String("email", user.Email), zap.Error(err))
			continue
		}
		users = append(users, user)
	}

	if len(users) == 0 {
		return nil, fmt.Errorf("no users created")
	}
	return users, nil
}

// seedDatasets generates synthetic CSVs per user, concurrently
func (s *Seeder) seedDatasets(ctx context.Context, users []models.User, perUser int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for _, user := range users {
		for i := 0; i < perUser; i++ {
			g.Go(func() error {
				return s.createDataset(ctx, user)
			})
		}
	}

	return g.Wait()
}

// createDataset builds one synthetic sales CSV, stores it and records
// its metadata the same way the upload endpoint does
func (s *Seeder) createDataset(ctx context.Context, user models.User) error {
	rows := gofakeit.Number(200, 800)
	raw := syntheticSalesCSV(rows)

	frame, err := dataset.ReadCSV(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("generated CSV failed to parse: %w", err)
	}

	key := fmt.Sprintf("%s/%s/%s.csv", storage.PrefixUploads, user.ID, uuid.New().String())
	if err := s.store.Put(ctx, key, raw, "text/csv"); err != nil {
		return fmt.Errorf("failed to store seed dataset: %w", err)
	}

	rowCount, colCount := frame.Shape()
	columns := make([]models.ColumnMeta, 0, colCount)
	for _, name := range frame.Columns() {
		col := frame.Column(name)
		columns = append(columns, models.ColumnMeta{
			Name:         name,
			DType:        string(col.DType),
			MissingCount: col.MissingCount(),
			UniqueCount:  col.UniqueCount(),
		})
	}

	ds := models.Dataset{
		UserID:      user.ID,
		Filename:    fmt.Sprintf("%s_sales.csv", gofakeit.Company()),
		StorageKey:  key,
		FileSize:    int64(len(raw)),
		RowCount:    rowCount,
		ColumnCount: colCount,
		Columns:     columns,
		Tags:        models.StringArray{"demo", "sales"},
		Status:      "ready",
	}
	return s.db.Create(&ds).Error
}

// syntheticSalesCSV produces a sales table with numeric, categorical and
// datetime columns plus a sprinkling of missing values and duplicates so
// cleaning has something to do
func syntheticSalesCSV(rows int) []byte {
	var buf bytes.Buffer
	buf.WriteString("order_id,region,product,units,unit_price,revenue,order_date,returned\n")

	regions := []string{"North", "South", "East", "West"}
	products := []string{"Widget", "Gadget", "Gizmo", "Doohickey", "Thingamajig"}

	writeRow := func(i int) string {
		units := gofakeit.Number(1, 50)
		price := gofakeit.Float64Range(5, 250)
		row := fmt.Sprintf("%d,%s,%s,%d,%.2f,%.2f,%s,%t\n",
			1000+i,
			regions[rand.Intn(len(regions))],
			products[rand.Intn(len(products))],
			units,
			price,
			float64(units)*price,
			gofakeit.DateRange(
				time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
			).Format("2006-01-02"),
			gofakeit.Bool(),
		)
		return row
	}

	var last string
	for i := 0; i < rows; i++ {
		row := writeRow(i)
		// ~5% missing units, ~3% duplicated rows
		if rand.Float64() < 0.05 {
			row = fmt.Sprintf("%d,%s,%s,,,,%s,\n",
				1000+i,
				regions[rand.Intn(len(regions))],
				products[rand.Intn(len(products))],
				gofakeit.DateRange(
					time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
					time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
				).Format("2006-01-02"),
			)
		}
		if last != "" && rand.Float64() < 0.03 {
			buf.WriteString(last)
		}
		buf.WriteString(row)
		last = row
	}

	return buf.Bytes()
}
