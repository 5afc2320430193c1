package database

import (
	"fmt"
	"os"
	"time"

	"clinic-booking/logger"
	appointmentModel "clinic-booking/models/appointment"
	catalogModel "clinic-booking/models/catalog"
	logModel "clinic-booking/models/log"
	patientModel "clinic-booking/models/patient"
	personModel "clinic-booking/models/person"
	scheduleModel "clinic-booking/models/schedule"
	userModel "clinic-booking/models/user"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB opens the connection, migrates the schema in stages and creates
// the indexes and constraints AutoMigrate does not cover.
func InitDB() (*gorm.DB, error) {
	if err := godotenv.Load(); err != nil {
		logger.Warning("no .env file found, using environment variables")
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	database := os.Getenv("DB_DATABASE")
	user := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSLMODE")

	if sslmode == "" {
		sslmode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, database, sslmode)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	if err := sqlDB.Ping(); err != nil {
		logger.Error("Database ping failed", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := autoMigrate(); err != nil {
		logger.Error("Failed to run migrations", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	if err := createForeignKeyConstraints(); err != nil {
		logger.Error("Failed to create foreign key constraints", err)
		return nil, err
	}

	if err := createIndexes(); err != nil {
		logger.Error("Failed to create indexes", err)
		return nil, err
	}
	logger.Success("All indexes created successfully")

	return DB, nil
}

// autoMigrate migrates models in dependency order so foreign keys always
// point at existing tables.
func autoMigrate() error {
	// Stage 1: entities without references
	stage1 := []interface{}{
		&personModel.Person{},
		&userModel.Role{},
		&catalogModel.Area{},
		&appointmentModel.Status{},
	}
	for _, model := range stage1 {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 2: entities referencing stage 1
	stage2 := []interface{}{
		&userModel.User{},
		&patientModel.Patient{},
		&catalogModel.Specialty{},
	}
	for _, model := range stage2 {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 3: scheduling and bookings
	stage3 := []interface{}{
		&scheduleModel.Slot{},
		&appointmentModel.Appointment{},
		&appointmentModel.StatusChange{},
	}
	for _, model := range stage3 {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 4: logging
	if err := DB.AutoMigrate(&logModel.Log{}); err != nil {
		return fmt.Errorf("failed to migrate %T: %w", &logModel.Log{}, err)
	}

	return nil
}

// createIndexes creates the lookup indexes AutoMigrate tags do not express.
func createIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_personas_dni ON personas(dni)",
		"CREATE INDEX IF NOT EXISTS idx_usuarios_uuid ON usuarios(uuid)",
		"CREATE INDEX IF NOT EXISTS idx_citas_fecha_estado ON citas(fecha, estado_id)",
		"CREATE INDEX IF NOT EXISTS idx_citas_paciente_fecha ON citas(paciente_id, fecha)",
		"CREATE INDEX IF NOT EXISTS idx_horarios_fecha_area ON horarios_medicos(fecha, area_id)",
		"CREATE INDEX IF NOT EXISTS idx_historial_cita_fecha ON historial_estado_citas(cita_id, fecha_cambio)",
		"CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at)",
	}
	for _, stmt := range indexes {
		if err := DB.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// createForeignKeyConstraints adds the constraints AutoMigrate leaves out,
// skipping the ones that already exist.
func createForeignKeyConstraints() error {
	constraints := []struct {
		name string
		sql  string
	}{
		{
			name: "fk_citas_paciente",
			sql: `ALTER TABLE citas ADD CONSTRAINT fk_citas_paciente
				  FOREIGN KEY (paciente_id) REFERENCES pacientes(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_citas_horario",
			sql: `ALTER TABLE citas ADD CONSTRAINT fk_citas_horario
				  FOREIGN KEY (horario_id) REFERENCES horarios_medicos(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_historial_cita",
			sql: `ALTER TABLE historial_estado_citas ADD CONSTRAINT fk_historial_cita
				  FOREIGN KEY (cita_id) REFERENCES citas(id)
				  ON UPDATE CASCADE ON DELETE CASCADE`,
		},
	}

	for _, constraint := range constraints {
		var exists bool
		checkSQL := `
			SELECT EXISTS (
				SELECT 1 FROM information_schema.table_constraints
				WHERE constraint_name = $1
			)
		`

		err := DB.Raw(checkSQL, constraint.name).Scan(&exists).Error
		if err != nil {
			logger.Warning(fmt.Sprintf("Failed to check constraint existence: %s - Error: %v", constraint.name, err))
			continue
		}

		if !exists {
			if err := DB.Exec(constraint.sql).Error; err != nil {
				logger.Warning(fmt.Sprintf("Failed to create constraint: %s - Error: %v", constraint.name, err))
			} else {
				logger.Success(fmt.Sprintf("Successfully created constraint: %s", constraint.name))
			}
		}
	}

	return nil
}

// GetDB returns the database instance.
func GetDB() *gorm.DB {
	return DB
}
