package booking

import (
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"clinic-booking/apperrors"
	appointmentModel "clinic-booking/models/appointment"
	catalogModel "clinic-booking/models/catalog"
	patientModel "clinic-booking/models/patient"
	personModel "clinic-booking/models/person"
	scheduleModel "clinic-booking/models/schedule"
	userModel "clinic-booking/models/user"
	appointmentType "clinic-booking/types/appointment"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dniCounter int

func nextDNI() string {
	dniCounter++
	return fmt.Sprintf("%08d", 10000000+dniCounter)
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

	tables := []string{
		"historial_estado_citas", "citas", "horarios_medicos",
		"pacientes", "usuarios", "personas",
	}
	for _, table := range tables {
		if err := db.Exec("TRUNCATE TABLE " + table + " RESTART IDENTITY CASCADE").Error; err != nil {
			t.Fatalf("truncate %s: %v", table, err)
		}
	}

	seedStatuses(t, db)
	return db
}

func seedStatuses(t *testing.T, db *gorm.DB) {
	t.Helper()
	names := []string{
		appointmentModel.StatusPending,
		appointmentModel.StatusConfirmed,
		appointmentModel.StatusAttended,
		appointmentModel.StatusCancelled,
		appointmentModel.StatusNoShow,
		appointmentModel.StatusReferred,
	}
	for _, name := range names {
		var existing appointmentModel.Status
		if err := db.Where("nombre = ?", name).First(&existing).Error; err == gorm.ErrRecordNotFound {
			if err := db.Create(&appointmentModel.Status{Nombre: name, Activo: true}).Error; err != nil {
				t.Fatalf("seed status %s: %v", name, err)
			}
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
}

func newPatient(t *testing.T, db *gorm.DB) patientModel.Patient {
	t.Helper()
	person := personModel.Person{
		DNI:             nextDNI(),
		Nombres:         "Maria",
		ApellidoPaterno: "Lopez",
		ApellidoMaterno: "Diaz",
	}
	if err := db.Create(&person).Error; err != nil {
		t.Fatalf("create person: %v", err)
	}
	patient := patientModel.Patient{PersonID: person.ID, EstadoCivil: "S"}
	if err := db.Create(&patient).Error; err != nil {
		t.Fatalf("create patient: %v", err)
	}
	return patient
}

func newSlot(t *testing.T, db *gorm.DB, cupos int) scheduleModel.Slot {
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

	area := catalogModel.Area{Nombre: fmt.Sprintf("Area %s", person.DNI), Activo: true}
	if err := db.Create(&area).Error; err != nil {
		t.Fatalf("create area: %v", err)
	}

	future := time.Now().AddDate(0, 0, 7)
	fecha := time.Date(future.Year(), future.Month(), future.Day(), 0, 0, 0, 0, time.UTC)
	slot := scheduleModel.Slot{
		MedicoID:  doctor.ID,
		AreaID:    area.ID,
		Fecha:     fecha,
		DiaSemana: scheduleModel.Weekday(fecha),
		Turno:     scheduleModel.ShiftMorning,
		Cupos:     cupos,
	}
	if err := db.Create(&slot).Error; err != nil {
		t.Fatalf("create slot: %v", err)
	}
	return slot
}

func bookReq(patient patientModel.Patient, slot scheduleModel.Slot) appointmentType.BookingCreateRequest {
	sintomas := "dolor abdominal"
	return appointmentType.BookingCreateRequest{
		PacienteID: patient.ID,
		HorarioID:  slot.ID,
		Fecha:      slot.Fecha.Format("2006-01-02"),
		Sintomas:   &sintomas,
	}
}

func TestBookCreatesPendingWithoutHistory(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)

	patient := newPatient(t, db)
	slot := newSlot(t, db, 5)

	result, err := svc.Book(bookReq(patient, slot))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	if result.CuposTotales != 5 || result.CuposOcupados != 1 || result.CuposRestantes != 4 {
		t.Errorf("counters = %d/%d/%d", result.CuposTotales, result.CuposOcupados, result.CuposRestantes)
	}
	if result.Cita.StatusName() != appointmentModel.StatusPending {
		t.Errorf("estado = %s, want pendiente", result.Cita.StatusName())
	}

	// Historial rows come from status transitions only; booking writes none.
	var history int64
	if err := db.Model(&appointmentModel.StatusChange{}).
		Where("cita_id = ?", result.Cita.ID).Count(&history).Error; err != nil {
		t.Fatalf("count history: %v", err)
	}
	if history != 0 {
		t.Errorf("history rows after booking = %d, want 0", history)
	}
}

func TestBookRefreshesCompanionNames(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)

	patient := newPatient(t, db)
	slot := newSlot(t, db, 5)

	companion := personModel.Person{
		DNI:             nextDNI(),
		Nombres:         "Rosa",
		ApellidoPaterno: "Quispe",
		ApellidoMaterno: "Mamani",
	}
	if err := db.Create(&companion).Error; err != nil {
		t.Fatalf("create companion: %v", err)
	}

	telefono := "987654321"
	req := bookReq(patient, slot)
	req.Acompanante = &appointmentType.CompanionPayload{
		DNI:             companion.DNI,
		Nombres:         "Rosa Maria",
		ApellidoPaterno: "Quispe",
		ApellidoMaterno: "Huaman",
		Telefono:        &telefono,
	}

	result, err := svc.Book(req)
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if result.Cita.AcompanantePersonaID == nil || *result.Cita.AcompanantePersonaID != companion.ID {
		t.Fatal("cita must reference the existing companion person")
	}

	var reloaded personModel.Person
	if err := db.First(&reloaded, companion.ID).Error; err != nil {
		t.Fatalf("reload companion: %v", err)
	}
	if reloaded.Nombres != "Rosa Maria" || reloaded.ApellidoMaterno != "Huaman" {
		t.Errorf("companion names not refreshed: %s %s", reloaded.Nombres, reloaded.ApellidoMaterno)
	}
	if reloaded.Telefono == nil || *reloaded.Telefono != telefono {
		t.Error("companion telefono not refreshed")
	}
}

func TestBookMissingPatientCheckedBeforeFecha(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)

	slot := newSlot(t, db, 5)

	sintomas := "fiebre"
	req := appointmentType.BookingCreateRequest{
		PacienteID: 99999,
		HorarioID:  slot.ID,
		Fecha:      "15/09/2025",
		Sintomas:   &sintomas,
	}

	_, err := svc.Book(req)
	if err == nil {
		t.Fatal("booking for a missing patient must fail")
	}
	if apperrors.StatusOf(err) != 404 {
		t.Errorf("status = %d, want 404 before the fecha is parsed", apperrors.StatusOf(err))
	}
}

func TestBookCapacityExhausted(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)

	slot := newSlot(t, db, 1)
	first := newPatient(t, db)
	second := newPatient(t, db)

	if _, err := svc.Book(bookReq(first, slot)); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	_, err := svc.Book(bookReq(second, slot))
	if err == nil {
		t.Fatal("second booking must fail on a full slot")
	}
	if apperrors.StatusOf(err) != 409 {
		t.Errorf("status = %d, want 409", apperrors.StatusOf(err))
	}
	data := apperrors.DataOf(err)
	if data == nil || data["cupos_totales"] != 1 || data["cupos_ocupados"] != 1 {
		t.Errorf("capacity payload = %v", data)
	}
}

func TestCancelFreesCapacity(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)

	slot := newSlot(t, db, 1)
	first := newPatient(t, db)
	second := newPatient(t, db)

	result, err := svc.Book(bookReq(first, slot))
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}

	if _, err := svc.ChangeStatus(result.Cita.ID, appointmentModel.StatusCancelled, nil, nil, ""); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if _, err := svc.Book(bookReq(second, slot)); err != nil {
		t.Errorf("cancelled cita must free its cupo: %v", err)
	}
}

func TestDuplicateBookingRejected(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)

	slot := newSlot(t, db, 5)
	patient := newPatient(t, db)

	if _, err := svc.Book(bookReq(patient, slot)); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	_, err := svc.Book(bookReq(patient, slot))
	if err == nil {
		t.Fatal("duplicate active booking must be rejected")
	}
	if apperrors.StatusOf(err) != 409 {
		t.Errorf("status = %d, want 409", apperrors.StatusOf(err))
	}
}

func TestBookDateMismatch(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)

	slot := newSlot(t, db, 5)
	patient := newPatient(t, db)

	req := bookReq(patient, slot)
	req.Fecha = slot.Fecha.AddDate(0, 0, 1).Format("2006-01-02")

	_, err := svc.Book(req)
	if err == nil {
		t.Fatal("date mismatch must be rejected")
	}
	if apperrors.StatusOf(err) != 400 {
		t.Errorf("status = %d, want 400", apperrors.StatusOf(err))
	}
}

func TestConcurrentBookingHonorsCapacity(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)

	slot := newSlot(t, db, 2)

	patients := make([]patientModel.Patient, 5)
	for i := range patients {
		patients[i] = newPatient(t, db)
	}

	var wg sync.WaitGroup
	errs := make([]error, len(patients))
	for i := range patients {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Book(bookReq(patients[i], slot))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	if succeeded != 2 {
		t.Errorf("successful bookings = %d, want exactly 2", succeeded)
	}

	var active int64
	if err := db.Model(&appointmentModel.Appointment{}).
		Where("horario_id = ?", slot.ID).Count(&active).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if active != 2 {
		t.Errorf("citas on slot = %d, want 2", active)
	}
}
