package booking

import (
	"testing"

	"clinic-booking/apperrors"
	appointmentModel "clinic-booking/models/appointment"
)

func TestStatusLifecycle(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)

	slot := newSlot(t, db, 5)
	patient := newPatient(t, db)

	result, err := svc.Book(bookReq(patient, slot))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	citaID := result.Cita.ID

	cita, err := svc.ChangeStatus(citaID, appointmentModel.StatusConfirmed, nil, nil, "")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if cita.StatusName() != appointmentModel.StatusConfirmed {
		t.Errorf("estado = %s, want confirmada", cita.StatusName())
	}

	cita, err = svc.ChangeStatus(citaID, appointmentModel.StatusAttended, nil, nil, "")
	if err != nil {
		t.Fatalf("attend: %v", err)
	}
	if cita.StatusName() != appointmentModel.StatusAttended {
		t.Errorf("estado = %s, want atendida", cita.StatusName())
	}

	// atendida is terminal.
	if _, err := svc.ChangeStatus(citaID, appointmentModel.StatusCancelled, nil, nil, ""); err == nil {
		t.Error("transition out of a terminal estado must fail")
	} else if apperrors.StatusOf(err) != 409 {
		t.Errorf("status = %d, want 409", apperrors.StatusOf(err))
	}

	// Two transitions = exactly two audit rows, in order. Booking itself
	// writes none.
	history, total, err := svc.History(citaID, 1, 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if total != 2 || len(history) != 2 {
		t.Fatalf("history rows = %d (total %d), want 2", len(history), total)
	}
	// Newest first.
	if history[0].EstadoNuevo.Nombre != appointmentModel.StatusAttended {
		t.Errorf("latest = %s, want atendida", history[0].EstadoNuevo.Nombre)
	}
	if history[1].EstadoAnterior == nil || history[1].EstadoAnterior.Nombre != appointmentModel.StatusPending {
		t.Error("oldest row must record the transition out of pendiente")
	}
}

func TestStatusRejectsUnknownName(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)

	slot := newSlot(t, db, 5)
	patient := newPatient(t, db)
	result, err := svc.Book(bookReq(patient, slot))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	_, err = svc.ChangeStatus(result.Cita.ID, "archivada", nil, nil, "")
	if err == nil {
		t.Fatal("unknown estado must be rejected")
	}
	if apperrors.StatusOf(err) != 400 {
		t.Errorf("status = %d, want 400", apperrors.StatusOf(err))
	}

	// Nothing may be written for a rejected change.
	_, total, err := svc.History(result.Cita.ID, 1, 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if total != 0 {
		t.Errorf("history rows = %d, want none", total)
	}
}

func TestStatusSameNameIsNoOp(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)

	slot := newSlot(t, db, 5)
	patient := newPatient(t, db)
	result, err := svc.Book(bookReq(patient, slot))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	cita, err := svc.ChangeStatus(result.Cita.ID, appointmentModel.StatusPending, nil, nil, "")
	if err != nil {
		t.Fatalf("no-op change: %v", err)
	}
	if cita.StatusName() != appointmentModel.StatusPending {
		t.Errorf("estado = %s, want pendiente", cita.StatusName())
	}

	_, total, err := svc.History(result.Cita.ID, 1, 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if total != 0 {
		t.Errorf("history rows = %d, a no-op must not write audit rows", total)
	}
}

func TestHistoryPagination(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)

	slot := newSlot(t, db, 5)
	patient := newPatient(t, db)
	result, err := svc.Book(bookReq(patient, slot))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if _, err := svc.ChangeStatus(result.Cita.ID, appointmentModel.StatusConfirmed, nil, nil, ""); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := svc.ChangeStatus(result.Cita.ID, appointmentModel.StatusAttended, nil, nil, ""); err != nil {
		t.Fatalf("attend: %v", err)
	}

	page1, total, err := svc.History(result.Cita.ID, 1, 1)
	if err != nil {
		t.Fatalf("History page 1: %v", err)
	}
	if total != 2 || len(page1) != 1 {
		t.Fatalf("page 1 = %d rows (total %d), want 1 of 2", len(page1), total)
	}

	page2, _, err := svc.History(result.Cita.ID, 2, 1)
	if err != nil {
		t.Fatalf("History page 2: %v", err)
	}
	if len(page2) != 1 {
		t.Fatalf("page 2 = %d rows, want 1", len(page2))
	}

	if _, _, err := svc.History(99999, 1, 10); err == nil {
		t.Error("history of a missing cita must fail")
	}
}
