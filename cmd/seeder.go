package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/frahmantamala/recruitment-performance/internal"
	activityDatamodel "github.com/frahmantamala/recruitment-performance/internal/core/datamodel/activity"
	dropoutDatamodel "github.com/frahmantamala/recruitment-performance/internal/core/datamodel/dropout"
	orgDatamodel "github.com/frahmantamala/recruitment-performance/internal/core/datamodel/org"
	roleDatamodel "github.com/frahmantamala/recruitment-performance/internal/core/datamodel/role"
	scoringDatamodel "github.com/frahmantamala/recruitment-performance/internal/core/datamodel/scoring"
	userDatamodel "github.com/frahmantamala/recruitment-performance/internal/core/datamodel/user"
	"github.com/frahmantamala/recruitment-performance/internal/role"
	"github.com/frahmantamala/recruitment-performance/internal/user"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with a sample company, users, teams, clients, roles and activity for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := initGorm(sqlDB)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			if err := clearSeedData(db); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		if err := db.Transaction(func(tx *gorm.DB) error {
			return seed(tx, time.Now().UTC())
		}); err != nil {
			log.Fatalf("failed to seed: %v", err)
		}
		fmt.Println("Sample data seeded successfully")
	},
}

// clearSeedData empties every table in dependency order.
func clearSeedData(db *gorm.DB) error {
	tables := []interface{}{
		&scoringDatamodel.Penalty{},
		&dropoutDatamodel.Request{},
		&activityDatamodel.Entry{},
		&roleDatamodel.Role{},
		&orgDatamodel.Client{},
		&orgDatamodel.TeamMember{},
		&orgDatamodel.Team{},
		&userDatamodel.User{},
		&orgDatamodel.Company{},
	}
	for _, t := range tables {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(t).Error; err != nil {
			return fmt.Errorf("clear %T: %w", t, err)
		}
	}
	return nil
}

func insertIgnore(tx *gorm.DB, value interface{}) error {
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(value).Error
}

func seed(tx *gorm.DB, now time.Time) error {
	company := &orgDatamodel.Company{ID: 1, Code: "ACME-GRP", Name: "Acme Talent Group"}
	if err := insertIgnore(tx, company); err != nil {
		return fmt.Errorf("seed company: %w", err)
	}

	users := []*userDatamodel.User{
		{ID: 1, Code: "U-ADMIN", Email: "admin@mail.com", Name: "Admin", Role: user.RoleAdmin},
		{ID: 2, Code: "U-RM", Email: "rina@mail.com", Name: "Rina Manager", Role: user.RoleRecruitmentManager},
		{ID: 3, Code: "U-AM", Email: "andi@mail.com", Name: "Andi Account", Role: user.RoleAccountManager},
		{ID: 4, Code: "U-REC1", Email: "fadhil@mail.com", Name: "Fadhil", Role: user.RoleRecruiter},
		{ID: 5, Code: "U-REC2", Email: "sari@mail.com", Name: "Sari", Role: user.RoleRecruiter},
	}
	for _, u := range users {
		u.CompanyID = company.ID
		u.IsActive = true
		if err := insertIgnore(tx, u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		fmt.Printf("Seeded user: %s (%s)\n", u.Email, u.Role)
	}

	team := &orgDatamodel.Team{ID: 1, Code: "T-ENG", Name: "Engineering Hiring", CompanyID: company.ID, ManagerID: 2}
	if err := insertIgnore(tx, team); err != nil {
		return fmt.Errorf("seed team: %w", err)
	}
	for _, recruiterID := range []int64{4, 5} {
		if err := insertIgnore(tx, &orgDatamodel.TeamMember{TeamID: team.ID, RecruiterID: recruiterID}); err != nil {
			return fmt.Errorf("seed team member %d: %w", recruiterID, err)
		}
	}

	clients := []*orgDatamodel.Client{
		{ID: 1, Code: "CL-GLOBEX", Name: "Globex", CompanyID: company.ID, AccountManagerID: 3},
		{ID: 2, Code: "CL-INITECH", Name: "Initech", CompanyID: company.ID, AccountManagerID: 3},
	}
	for _, c := range clients {
		if err := insertIgnore(tx, c); err != nil {
			return fmt.Errorf("seed client %s: %w", c.Code, err)
		}
	}

	closedAt := now.AddDate(0, 0, -5)
	roles := []*roleDatamodel.Role{
		{ID: 1, Code: "R-BE-01", Title: "Backend Engineer", Status: role.StatusOpen, ClientID: 1, CreatedAt: now.AddDate(0, 0, -40)},
		{ID: 2, Code: "R-FE-01", Title: "Frontend Engineer", Status: role.StatusOpen, ClientID: 1, CreatedAt: now.AddDate(0, 0, -20)},
		{ID: 3, Code: "R-DA-01", Title: "Data Analyst", Status: role.StatusOnHold, ClientID: 2, CreatedAt: now.AddDate(0, 0, -7)},
		{ID: 4, Code: "R-PM-01", Title: "Product Manager", Status: role.StatusClosed, ClientID: 2, CreatedAt: now.AddDate(0, 0, -60), StatusChangedAt: &closedAt},
	}
	for _, r := range roles {
		r.TeamID = team.ID
		r.AccountManagerID = 3
		if err := insertIgnore(tx, r); err != nil {
			return fmt.Errorf("seed role %s: %w", r.Code, err)
		}
	}

	level := func(n int) *int { return &n }
	day := func(daysAgo int) time.Time { return internal.DayOf(now.AddDate(0, 0, -daysAgo)) }
	entries := []*activityDatamodel.Entry{
		{EntryType: "submission", RoleID: 1, RecruiterID: 4, SubmissionDate: day(35)},
		{EntryType: "submission", RoleID: 1, RecruiterID: 4, SubmissionDate: day(30)},
		{EntryType: "interview", RoleID: 1, RecruiterID: 4, SubmissionDate: day(25), InterviewLevel: level(1)},
		{EntryType: "interview", RoleID: 1, RecruiterID: 4, SubmissionDate: day(20), InterviewLevel: level(2)},
		{EntryType: "submission", RoleID: 2, RecruiterID: 5, SubmissionDate: day(10)},
		{EntryType: "interview", RoleID: 4, RecruiterID: 5, SubmissionDate: day(50), InterviewLevel: level(3)},
		{EntryType: "deal", RoleID: 4, RecruiterID: 5, SubmissionDate: day(6)},
	}

	if err := resetSequences(tx, "companies", "users", "teams", "clients", "roles"); err != nil {
		return err
	}

	var existing int64
	if err := tx.Model(&activityDatamodel.Entry{}).Count(&existing).Error; err != nil {
		return fmt.Errorf("count activity: %w", err)
	}
	if existing > 0 {
		fmt.Println("Activity already present; skipping sample entries")
		return nil
	}
	if err := tx.Create(&entries).Error; err != nil {
		return fmt.Errorf("seed activity: %w", err)
	}
	fmt.Printf("Seeded %d activity entries\n", len(entries))
	return nil
}

// resetSequences moves serial sequences past the explicit ids used above.
func resetSequences(tx *gorm.DB, tables ...string) error {
	for _, t := range tables {
		q := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 1))", t, t)
		if err := tx.Exec(q).Error; err != nil {
			return fmt.Errorf("reset %s sequence: %w", t, err)
		}
	}
	return nil
}
