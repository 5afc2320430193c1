package schedule

import (
	"fmt"
	"os"
	"testing"

	appointmentModel "clinic-booking/models/appointment"
	catalogModel "clinic-booking/models/catalog"
	patientModel "clinic-booking/models/patient"
	personModel "clinic-booking/models/person"
	scheduleModel "clinic-booking/models/schedule"
	userModel "clinic-booking/models/user"
	scheduleType "clinic-booking/types/schedule"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dniCounter int

func nextDNI() string {
	dniCounter++
	return fmt.Sprintf("%08d", 20000000+dniCounter)
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	models := []interface{}{
		&personModel.Person{},
		&userModel.Role{},
		&catalogModel.Area{},
		&appointmentModel.Status{},
		&userModel.User{},
		&patientModel.Patient{},
		&scheduleModel.Slot{},
		&appointmentModel.Appointment{},
		&appointmentModel.StatusChange{},
	}
	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			t.Fatalf("migrate %T: %v", model, err)
		}
	}

	tables := []string{"citas", "horarios_medicos", "usuarios", "personas"}
	for _, table := range tables {
		if err := db.Exec("TRUNCATE TABLE " + table + " RESTART IDENTITY CASCADE").Error; err != nil {
			t.Fatalf("truncate %s: %v", table, err)
		}
	}

	roles := []userModel.Role{
		{ID: userModel.RoleAdmin, Nombre: "Administrador", Activo: true},
		{ID: userModel.RoleDoctor, Nombre: "Profesional", Activo: true},
		{ID: userModel.RoleAssistant, Nombre: "Asistente", Activo: true},
	}
	for _, role := range roles {
		var existing userModel.Role
		if err := db.Where("id = ?", role.ID).First(&existing).Error; err == gorm.ErrRecordNotFound {
			if err := db.Create(&role).Error; err != nil {
				t.Fatalf("seed role %s: %v", role.Nombre, err)
			}
		}
	}
	return db
}

func newDoctor(t *testing.T, db *gorm.DB) userModel.User {
	t.Helper()
	person := personModel.Person{
		DNI:             nextDNI(),
		Nombres:         "Carlos",
		ApellidoPaterno: "Ramos",
		ApellidoMaterno: "Vega",
	}
	if err := db.Create(&person).Error; err != nil {
		t.Fatalf("create doctor person: %v", err)
	}
	doctor := userModel.User{
		UUID:     fmt.Sprintf("test-%s", person.DNI),
		PersonID: person.ID,
		Password: "x",
		RolID:    userModel.RoleDoctor,
		Activo:   true,
	}
	if err := db.Create(&doctor).Error; err != nil {
		t.Fatalf("create doctor: %v", err)
	}
	return doctor
}

func newArea(t *testing.T, db *gorm.DB) catalogModel.Area {
	t.Helper()
	area := catalogModel.Area{Nombre: fmt.Sprintf("Area %s", nextDNI()), Activo: true}
	if err := db.Create(&area).Error; err != nil {
		t.Fatalf("create area: %v", err)
	}
	return area
}

func TestGenerateMonthIdempotent(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)

	doctor := newDoctor(t, db)
	area := newArea(t, db)

	// Mondays and Thursdays of September 2025, both shifts: 9 dates x 2.
	req := scheduleType.MonthlyCreateRequest{
		MedicoID: doctor.ID,
		AreaID:   area.ID,
		Mes:      "2025-09",
		Dias:     []int{0, 3},
		Turnos: scheduleType.ShiftPlan{
			Manana: scheduleType.ShiftConfig{Activo: true, Cupos: 10},
			Tarde:  scheduleType.ShiftConfig{Activo: true, Cupos: 6},
		},
	}

	first, err := svc.GenerateMonth(req)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Creados != 18 || first.Actualizados != 0 {
		t.Fatalf("first run = %d creados, %d actualizados, want 18/0", first.Creados, first.Actualizados)
	}

	second, err := svc.GenerateMonth(req)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Creados != 0 || second.Actualizados != 0 {
		t.Errorf("second run = %d creados, %d actualizados, want 0/0", second.Creados, second.Actualizados)
	}
	if second.SinCambios != 18 {
		t.Errorf("second run sin_cambios = %d, want 18", second.SinCambios)
	}

	var total int64
	if err := db.Model(&scheduleModel.Slot{}).
		Where("medico_id = ?", doctor.ID).Count(&total).Error; err != nil {
		t.Fatalf("count slots: %v", err)
	}
	if total != 18 {
		t.Errorf("slots = %d, want 18", total)
	}
}

func TestGenerateMonthUpdatesAreaAndCupos(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)

	doctor := newDoctor(t, db)
	first := newArea(t, db)
	second := newArea(t, db)

	req := scheduleType.MonthlyCreateRequest{
		MedicoID: doctor.ID,
		AreaID:   first.ID,
		Mes:      "2025-09",
		Fechas:   []string{"2025-09-10", "2025-09-17"},
		Turnos: scheduleType.ShiftPlan{
			Manana: scheduleType.ShiftConfig{Activo: true, Cupos: 10},
		},
	}
	if _, err := svc.GenerateMonth(req); err != nil {
		t.Fatalf("first run: %v", err)
	}

	req.AreaID = second.ID
	req.Turnos.Manana.Cupos = 4
	result, err := svc.GenerateMonth(req)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if result.Creados != 0 || result.Actualizados != 2 {
		t.Fatalf("second run = %d creados, %d actualizados, want 0/2", result.Creados, result.Actualizados)
	}

	var slots []scheduleModel.Slot
	if err := db.Where("medico_id = ?", doctor.ID).Find(&slots).Error; err != nil {
		t.Fatalf("load slots: %v", err)
	}
	for _, slot := range slots {
		if slot.AreaID != second.ID || slot.Cupos != 4 {
			t.Errorf("slot %d = area %d cupos %d, want area %d cupos 4", slot.ID, slot.AreaID, slot.Cupos, second.ID)
		}
	}
}

func TestDeleteMonthTurnoFilter(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)

	doctor := newDoctor(t, db)
	area := newArea(t, db)

	req := scheduleType.MonthlyCreateRequest{
		MedicoID: doctor.ID,
		AreaID:   area.ID,
		Mes:      "2025-09",
		Fechas:   []string{"2025-09-10", "2025-09-17"},
		Turnos: scheduleType.ShiftPlan{
			Manana: scheduleType.ShiftConfig{Activo: true, Cupos: 10},
			Tarde:  scheduleType.ShiftConfig{Activo: true, Cupos: 6},
		},
	}
	if _, err := svc.GenerateMonth(req); err != nil {
		t.Fatalf("generate: %v", err)
	}

	removed, err := svc.DeleteMonth(doctor.ID, "2025-09", scheduleModel.ShiftMorning)
	if err != nil {
		t.Fatalf("DeleteMonth: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	var remaining []scheduleModel.Slot
	if err := db.Where("medico_id = ?", doctor.ID).Find(&remaining).Error; err != nil {
		t.Fatalf("load slots: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("remaining slots = %d, want 2", len(remaining))
	}
	for _, slot := range remaining {
		if slot.Turno != scheduleModel.ShiftAfternoon {
			t.Errorf("slot %d turno = %s, want only tarde left", slot.ID, slot.Turno)
		}
	}

	if _, err := svc.DeleteMonth(doctor.ID, "2025-09", "X"); err == nil {
		t.Error("invalid turno filter must be rejected")
	}
}

func TestGenerateMonthRejectsInactivePlan(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)

	doctor := newDoctor(t, db)
	area := newArea(t, db)

	req := scheduleType.MonthlyCreateRequest{
		MedicoID: doctor.ID,
		AreaID:   area.ID,
		Mes:      "2025-09",
		Dias:     []int{0},
	}
	if _, err := svc.GenerateMonth(req); err == nil {
		t.Error("a plan with no active turno must be rejected")
	}
}
