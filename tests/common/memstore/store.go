//go:build unit || e2e

// Package memstore is an in-memory shared.UnitOfWork for usecase tests.
// Transactions run one at a time against a copy of the committed state and
// replace it only when fn returns nil, so rollbacks and races behave like the
// Postgres unit of work under row locks.
package memstore

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"car-rental-core/internal/domain/payment"
	"car-rental-core/internal/domain/reservation"
	"car-rental-core/internal/domain/vehicle"
	"car-rental-core/internal/infra"
	"car-rental-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	constraintTransactionRef = "payments_transaction_ref_key"
	constraintOneSuccess     = "uq_payments_one_success"
	constraintNoOverlap      = "reservations_no_overlap"
)

type ReservationRow struct {
	ID             uuid.UUID
	VehicleID      uuid.UUID
	UserID         uuid.UUID
	StartDate      time.Time
	EndDate        time.Time
	PickupLocation string
	TotalCents     int64
	Status         reservation.Status
	Version        int32
	ReminderSentAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (r ReservationRow) domain() *reservation.Reservation {
	return reservation.ReconstructReservation(
		r.ID, r.VehicleID, r.UserID,
		reservation.ReconstructDateRange(r.StartDate, r.EndDate),
		reservation.ReconstructPickupLocation(r.PickupLocation),
		reservation.MustMoney(r.TotalCents),
		r.Status,
		r.Version,
		r.CreatedAt, r.UpdatedAt,
	)
}

type PaymentRow struct {
	ID             uuid.UUID
	ReservationID  uuid.UUID
	AmountCents    int64
	Outcome        payment.Outcome
	TransactionRef string
	CreatedAt      time.Time
}

type JobRow struct {
	shared.NotificationJob
	LastError *string
}

type idemKey struct {
	scope string
	owner uuid.UUID
	key   string
}

type state struct {
	vehicles     map[uuid.UUID]*vehicle.Vehicle
	reservations map[uuid.UUID]ReservationRow
	payments     []PaymentRow
	idempotency  map[idemKey]shared.IdempotencyRecord
	jobs         []JobRow
}

func newState() *state {
	return &state{
		vehicles:     map[uuid.UUID]*vehicle.Vehicle{},
		reservations: map[uuid.UUID]ReservationRow{},
		idempotency:  map[idemKey]shared.IdempotencyRecord{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.vehicles {
		c.vehicles[k] = v
	}
	for k, v := range s.reservations {
		c.reservations[k] = v
	}
	for k, v := range s.idempotency {
		c.idempotency[k] = v
	}
	c.payments = append([]PaymentRow(nil), s.payments...)
	c.jobs = append([]JobRow(nil), s.jobs...)
	return c
}

type Store struct {
	mu          sync.Mutex
	committed   *state
	failUpdates map[uuid.UUID]error
	commits     int
}

var _ shared.UnitOfWork = (*Store)(nil)

func New() *Store {
	return &Store{
		committed:   newState(),
		failUpdates: map[uuid.UUID]error{},
	}
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.committed.clone()
	if err := fn(ctx, &memTx{st: work, failUpdates: s.failUpdates}); err != nil {
		return err
	}
	s.committed = work
	s.commits++
	return nil
}

func (s *Store) CommandReads() shared.CommandReads {
	return &lockedReads{store: s}
}

// ---- seeding and inspection ----

func (s *Store) AddVehicle(v *vehicle.Vehicle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.committed.vehicles[v.ID()] = v
}

// PutReservation stores res as-is, bypassing validation, so tests can seed
// rows created in the past.
func (s *Store) PutReservation(res *reservation.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.committed.reservations[res.ID()] = ReservationRow{
		ID:             res.ID(),
		VehicleID:      res.VehicleID(),
		UserID:         res.UserID(),
		StartDate:      res.Dates().Start(),
		EndDate:        res.Dates().End(),
		PickupLocation: res.PickupLocation().String(),
		TotalCents:     res.Total().Cents(),
		Status:         res.Status(),
		Version:        res.Version(),
		CreatedAt:      res.CreatedAt(),
		UpdatedAt:      res.UpdatedAt(),
	}
}

// FailUpdatesFor makes every status or pickup update of id fail with err.
func (s *Store) FailUpdatesFor(id uuid.UUID, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failUpdates[id] = err
}

func (s *Store) Reservation(id uuid.UUID) (ReservationRow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.committed.reservations[id]
	return r, ok
}

func (s *Store) Reservations() []ReservationRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]ReservationRow, 0, len(s.committed.reservations))
	for _, r := range s.committed.reservations {
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.Before(rows[j].CreatedAt) })
	return rows
}

func (s *Store) Payments() []PaymentRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]PaymentRow(nil), s.committed.payments...)
}

func (s *Store) Jobs() []JobRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]JobRow(nil), s.committed.jobs...)
}

func (s *Store) JobKinds() []string {
	jobs := s.Jobs()
	kinds := make([]string, 0, len(jobs))
	for _, j := range jobs {
		kinds = append(kinds, j.Kind)
	}
	return kinds
}

func (s *Store) IdempotencyRecords() []shared.IdempotencyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := make([]shared.IdempotencyRecord, 0, len(s.committed.idempotency))
	for _, r := range s.committed.idempotency {
		recs = append(recs, r)
	}
	return recs
}

// Commits counts transactions that committed.
func (s *Store) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

// ---- transaction ----

type memTx struct {
	st          *state
	failUpdates map[uuid.UUID]error
}

func (t *memTx) Vehicles() shared.VehicleRepository         { return vehicleRepo{t} }
func (t *memTx) Reservations() shared.ReservationRepository { return reservationRepo{t} }
func (t *memTx) Payments() shared.PaymentRepository         { return paymentRepo{t} }
func (t *memTx) Idempotency() shared.IdempotencyRepository  { return idempotencyRepo{t} }
func (t *memTx) Notifications() shared.NotificationRepository {
	return notificationRepo{t}
}
func (t *memTx) Reads() shared.CommandReads { return stateReads{t.st} }

func notFound(msg string) error {
	return infra.WrapRepoErr(msg, pgx.ErrNoRows, infra.KindNotFound)
}

func pgViolation(code, constraint string) error {
	return &pgconn.PgError{Code: code, ConstraintName: constraint, Message: "violates " + constraint}
}

type vehicleRepo struct{ tx *memTx }

func (r vehicleRepo) FindByID(_ context.Context, id uuid.UUID) (*vehicle.Vehicle, error) {
	v, ok := r.tx.st.vehicles[id]
	if !ok {
		return nil, notFound("vehicle not found")
	}
	return v, nil
}

func (r vehicleRepo) LockByID(ctx context.Context, id uuid.UUID) (*vehicle.Vehicle, error) {
	return r.FindByID(ctx, id)
}

type reservationRepo struct{ tx *memTx }

func overlaps(row ReservationRow, vehicleID uuid.UUID, dates reservation.DateRange) bool {
	return row.VehicleID == vehicleID &&
		row.Status.IsActive() &&
		!row.StartDate.After(dates.End()) &&
		!row.EndDate.Before(dates.Start())
}

func (r reservationRepo) Create(_ context.Context, res *reservation.Reservation) error {
	for _, row := range r.tx.st.reservations {
		if overlaps(row, res.VehicleID(), res.Dates()) {
			return infra.WrapRepoErr("failed to create reservation", pgViolation("23P01", constraintNoOverlap))
		}
	}
	r.tx.st.reservations[res.ID()] = ReservationRow{
		ID:             res.ID(),
		VehicleID:      res.VehicleID(),
		UserID:         res.UserID(),
		StartDate:      res.Dates().Start(),
		EndDate:        res.Dates().End(),
		PickupLocation: res.PickupLocation().String(),
		TotalCents:     res.Total().Cents(),
		Status:         res.Status(),
		Version:        res.Version(),
		CreatedAt:      res.CreatedAt(),
		UpdatedAt:      res.UpdatedAt(),
	}
	return nil
}

func (r reservationRepo) CountOverlapping(_ context.Context, vehicleID uuid.UUID, dates reservation.DateRange) (int64, error) {
	var n int64
	for _, row := range r.tx.st.reservations {
		if overlaps(row, vehicleID, dates) {
			n++
		}
	}
	return n, nil
}

func (r reservationRepo) FindByID(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	row, ok := r.tx.st.reservations[id]
	if !ok {
		return nil, notFound("reservation not found")
	}
	return row.domain(), nil
}

func (r reservationRepo) update(res *reservation.Reservation, now time.Time, apply func(*ReservationRow)) error {
	if err, ok := r.tx.failUpdates[res.ID()]; ok {
		return err
	}
	row, ok := r.tx.st.reservations[res.ID()]
	if !ok || row.Version != res.Version() {
		return shared.ErrStaleVersion
	}
	apply(&row)
	row.Version++
	row.UpdatedAt = now
	r.tx.st.reservations[res.ID()] = row
	return nil
}

func (r reservationRepo) UpdateStatus(_ context.Context, res *reservation.Reservation, now time.Time) error {
	return r.update(res, now, func(row *ReservationRow) { row.Status = res.Status() })
}

func (r reservationRepo) UpdatePickupLocation(_ context.Context, res *reservation.Reservation, now time.Time) error {
	return r.update(res, now, func(row *ReservationRow) { row.PickupLocation = res.PickupLocation().String() })
}

func (r reservationRepo) list(afterID uuid.UUID, limit int32, match func(ReservationRow) bool) []*reservation.Reservation {
	var rows []ReservationRow
	for _, row := range r.tx.st.reservations {
		if bytes.Compare(row.ID[:], afterID[:]) > 0 && match(row) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return bytes.Compare(rows[i].ID[:], rows[j].ID[:]) < 0 })
	if len(rows) > int(limit) {
		rows = rows[:limit]
	}
	out := make([]*reservation.Reservation, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.domain())
	}
	return out
}

func (r reservationRepo) ListCompletable(_ context.Context, today time.Time, afterID uuid.UUID, limit int32) ([]*reservation.Reservation, error) {
	return r.list(afterID, limit, func(row ReservationRow) bool {
		return row.Status == reservation.StatusConfirmed && row.EndDate.Before(today)
	}), nil
}

func (r reservationRepo) ListLapsedPending(_ context.Context, today time.Time, afterID uuid.UUID, limit int32) ([]*reservation.Reservation, error) {
	return r.list(afterID, limit, func(row ReservationRow) bool {
		return row.Status == reservation.StatusPending && row.StartDate.Before(today)
	}), nil
}

func (r reservationRepo) ListTimedOutPending(_ context.Context, createdBefore time.Time, afterID uuid.UUID, limit int32) ([]*reservation.Reservation, error) {
	return r.list(afterID, limit, func(row ReservationRow) bool {
		return row.Status == reservation.StatusPending && row.CreatedAt.Before(createdBefore)
	}), nil
}

func (r reservationRepo) ListReminderDue(_ context.Context, startDate time.Time, limit int32) ([]*reservation.Reservation, error) {
	return r.list(uuid.Nil, limit, func(row ReservationRow) bool {
		return row.Status == reservation.StatusConfirmed && row.StartDate.Equal(startDate) && row.ReminderSentAt == nil
	}), nil
}

func (r reservationRepo) MarkReminderSent(_ context.Context, id uuid.UUID, sentAt time.Time) (bool, error) {
	row, ok := r.tx.st.reservations[id]
	if !ok || row.ReminderSentAt != nil {
		return false, nil
	}
	row.ReminderSentAt = &sentAt
	r.tx.st.reservations[id] = row
	return true, nil
}

type paymentRepo struct{ tx *memTx }

func (r paymentRepo) Create(_ context.Context, p *payment.Payment) error {
	for _, existing := range r.tx.st.payments {
		if existing.TransactionRef == p.TransactionRef() {
			return infra.WrapRepoErr("failed to record payment", pgViolation("23505", constraintTransactionRef))
		}
		if p.Outcome().Succeeded() && existing.ReservationID == p.ReservationID() && existing.Outcome.Succeeded() {
			return infra.WrapRepoErr("failed to record payment", pgViolation("23505", constraintOneSuccess))
		}
	}
	r.tx.st.payments = append(r.tx.st.payments, PaymentRow{
		ID:             p.ID(),
		ReservationID:  p.ReservationID(),
		AmountCents:    p.AmountCents(),
		Outcome:        p.Outcome(),
		TransactionRef: p.TransactionRef(),
		CreatedAt:      p.CreatedAt(),
	})
	return nil
}

type idempotencyRepo struct{ tx *memTx }

func (r idempotencyRepo) Save(_ context.Context, rec shared.IdempotencyRecord, now time.Time) (bool, error) {
	k := idemKey{rec.Scope, rec.OwnerID, rec.Key}
	if existing, ok := r.tx.st.idempotency[k]; ok && existing.IsLive(now) {
		return false, nil
	}
	r.tx.st.idempotency[k] = rec
	return true, nil
}

func (r idempotencyRepo) Complete(_ context.Context, rec shared.IdempotencyRecord, claimOutcome string) (bool, error) {
	k := idemKey{rec.Scope, rec.OwnerID, rec.Key}
	existing, ok := r.tx.st.idempotency[k]
	if !ok || existing.Outcome != claimOutcome {
		return false, nil
	}
	existing.Outcome = rec.Outcome
	existing.EntityID = rec.EntityID
	existing.ExpiresAt = rec.ExpiresAt
	r.tx.st.idempotency[k] = existing
	return true, nil
}

func (r idempotencyRepo) Release(_ context.Context, scope string, owner uuid.UUID, key, claimOutcome string) error {
	k := idemKey{scope, owner, key}
	if existing, ok := r.tx.st.idempotency[k]; ok && existing.Outcome == claimOutcome {
		delete(r.tx.st.idempotency, k)
	}
	return nil
}

func (r idempotencyRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for k, rec := range r.tx.st.idempotency {
		if !rec.IsLive(now) {
			delete(r.tx.st.idempotency, k)
			n++
		}
	}
	return n, nil
}

type notificationRepo struct{ tx *memTx }

func (r notificationRepo) CreateJob(_ context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	r.tx.st.jobs = append(r.tx.st.jobs, JobRow{NotificationJob: shared.NotificationJob{
		ID:      uuid.New(),
		Kind:    kind,
		Topic:   topic,
		Payload: payload,
		RunAt:   runAt,
		Status:  shared.JobQueued,
	}})
	return nil
}

func (r notificationRepo) ClaimDue(_ context.Context, now time.Time, limit int32) ([]shared.NotificationJob, error) {
	var due []shared.NotificationJob
	for _, j := range r.tx.st.jobs {
		if j.Status == shared.JobQueued && !j.RunAt.After(now) {
			due = append(due, j.NotificationJob)
		}
	}
	sort.SliceStable(due, func(i, k int) bool { return due[i].RunAt.Before(due[k].RunAt) })
	if len(due) > int(limit) {
		due = due[:limit]
	}
	return due, nil
}

func (r notificationRepo) UpdateJobStatus(_ context.Context, id uuid.UUID, status shared.JobStatus, lastError *string, runAt time.Time) error {
	for i := range r.tx.st.jobs {
		if r.tx.st.jobs[i].ID == id {
			r.tx.st.jobs[i].Status = status
			r.tx.st.jobs[i].LastError = lastError
			r.tx.st.jobs[i].RunAt = runAt
			r.tx.st.jobs[i].Attempts++
			return nil
		}
	}
	return notFound("notification job not found")
}

// ---- reads ----

type stateReads struct{ st *state }

func (r stateReads) VehicleByID(_ context.Context, id uuid.UUID) (*shared.VehicleSnapshot, error) {
	v, ok := r.st.vehicles[id]
	if !ok {
		return nil, notFound("vehicle not found")
	}
	return &shared.VehicleSnapshot{ID: v.ID(), DailyRateCents: v.DailyRateCents(), Status: v.Status().String()}, nil
}

func (r stateReads) ReservationByID(_ context.Context, id uuid.UUID) (*shared.ReservationSnapshot, error) {
	row, ok := r.st.reservations[id]
	if !ok {
		return nil, notFound("reservation not found")
	}
	return &shared.ReservationSnapshot{
		ID:               row.ID,
		VehicleID:        row.VehicleID,
		UserID:           row.UserID,
		Status:           row.Status.String(),
		StartDate:        row.StartDate,
		EndDate:          row.EndDate,
		TotalAmountCents: row.TotalCents,
		Version:          row.Version,
	}, nil
}

func (r stateReads) LiveIdempotencyRecord(_ context.Context, scope string, owner uuid.UUID, key string, now time.Time) (*shared.IdempotencyRecord, error) {
	rec, ok := r.st.idempotency[idemKey{scope, owner, key}]
	if !ok || !rec.IsLive(now) {
		return nil, nil
	}
	return &rec, nil
}

type lockedReads struct{ store *Store }

func (r *lockedReads) VehicleByID(ctx context.Context, id uuid.UUID) (*shared.VehicleSnapshot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return stateReads{r.store.committed}.VehicleByID(ctx, id)
}

func (r *lockedReads) ReservationByID(ctx context.Context, id uuid.UUID) (*shared.ReservationSnapshot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return stateReads{r.store.committed}.ReservationByID(ctx, id)
}

func (r *lockedReads) LiveIdempotencyRecord(ctx context.Context, scope string, owner uuid.UUID, key string, now time.Time) (*shared.IdempotencyRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return stateReads{r.store.committed}.LiveIdempotencyRecord(ctx, scope, owner, key, now)
}
