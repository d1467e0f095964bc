package notify

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"git.0xdad.com/tblyler/meditrackr/db"
	"git.0xdad.com/tblyler/meditrackr/medication"
	"git.0xdad.com/tblyler/meditrackr/schedule"
)

// DefaultSnooze delay
const DefaultSnooze = 15 * time.Minute

// Source of users and their medications, satisfied by *db.DB
type Source interface {
	ListUsers() ([]*db.User, error)
	ListMedicationsForUser(user *db.User) ([]*medication.Medication, error)
	GetMedication(user *db.User, id medication.ID) (*medication.Medication, error)
}

// Spec is the cron spec for reminders of a timed slot. As-needed medications,
// as-needed slots and weekly medications without days get no spec.
func Spec(m *medication.Medication, slot medication.TimeSlot) (string, bool) {
	if slot.IsAsNeeded() {
		return "", false
	}

	hour, minute, err := medication.ParseClock(slot.Time)
	if err != nil {
		return "", false
	}

	dow := "*"

	switch m.Frequency {
	case medication.Daily:
	case medication.Weekly:
		days := uniqueDays(m.WeeklyDays)
		if len(days) == 0 {
			return "", false
		}

		dow = strings.Join(days, ",")
	default:
		return "", false
	}

	return fmt.Sprintf("%d %d * * %s", minute, hour, dow), true
}

func uniqueDays(weekdays []int) []string {
	seen := map[int]bool{}
	var days []int
	for _, day := range weekdays {
		if day >= 0 && day <= 6 && !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}

	sort.Ints(days)

	out := make([]string, len(days))
	for i, day := range days {
		out[i] = strconv.Itoa(day)
	}

	return out
}

type job struct {
	id       cron.EntryID
	user     *db.User
	medID    medication.ID
	clock    string
	medName  string
	schedule string
}

// Status of the scheduler
type Status struct {
	Scheduled int
	Snoozed   int
	Next      time.Time
}

// Scheduler registers a cron job per scheduled dose and notifies when a due
// dose has not been marked taken.
type Scheduler struct {
	cron     *cron.Cron
	source   Source
	notifier Notifier
	logger   *zap.Logger
	loc      *time.Location
	now      func() time.Time
	snooze   time.Duration

	mu      sync.Mutex
	jobs    map[string]job
	snoozes map[*time.Timer]struct{}
	wg      sync.WaitGroup
}

// NewScheduler for reminders in loc
func NewScheduler(source Source, notifier Notifier, logger *zap.Logger, loc *time.Location) *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLogger{sugar: logger.Sugar()}),
		),
		source:   source,
		notifier: notifier,
		logger:   logger,
		loc:      loc,
		now:      time.Now,
		jobs:     map[string]job{},
		snoozes:  map[*time.Timer]struct{}{},
	}
}

func jobKey(user *db.User, id medication.ID, clock string) string {
	return user.ID.String() + "/" + string(id) + "/" + clock
}

// SetSnooze makes every sent reminder repeat once after d when the dose is
// still not taken. Zero turns repeats off.
func (s *Scheduler) SetSnooze(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snooze = d
}

// Sync replaces every reminder job with the current medications
func (s *Scheduler) Sync(ctx context.Context) error {
	users, err := s.source.ListUsers()
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	jobs := map[string]job{}
	for _, user := range users {
		medications, err := s.source.ListMedicationsForUser(user)
		if err != nil {
			return fmt.Errorf("failed to list medications for user %s: %w", user.Name, err)
		}

		for _, m := range medications {
			for _, slot := range m.Times {
				spec, ok := Spec(m, slot)
				if !ok {
					continue
				}

				jobs[jobKey(user, m.ID, slot.Time)] = job{
					user:     user,
					medID:    m.ID,
					clock:    slot.Time,
					medName:  m.Name,
					schedule: spec,
				}
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, old := range s.jobs {
		s.cron.Remove(old.id)
	}
	s.jobs = map[string]job{}

	for key, j := range jobs {
		j := j
		id, err := s.cron.AddFunc(j.schedule, func() {
			s.fire(ctx, j.user, j.medID, j.clock, false)
		})
		if err != nil {
			return fmt.Errorf("failed to schedule %s at %s: %w", j.medName, j.clock, err)
		}

		j.id = id
		s.jobs[key] = j

		s.logger.Debug("scheduled reminder",
			zap.String("user", j.user.Name),
			zap.String("medication", j.medName),
			zap.String("spec", j.schedule),
		)
	}

	s.logger.Info("synced reminders", zap.Int("count", len(s.jobs)))

	return nil
}

// fire notifies when the dose at clock is due today and not yet taken
func (s *Scheduler) fire(ctx context.Context, user *db.User, id medication.ID, clock string, snoozed bool) {
	logger := s.logger.With(zap.String("user", user.Name), zap.String("medication", string(id)), zap.String("time", clock))

	m, err := s.source.GetMedication(user, id)
	if err != nil {
		logger.Warn("skipping reminder for missing medication", zap.Error(err))
		return
	}

	today := medication.DateOf(s.now().In(s.loc))

	for _, entry := range schedule.ForDate(m, today) {
		if entry.Time != clock || entry.AsNeeded {
			continue
		}

		if entry.Taken {
			logger.Debug("dose already taken")
			return
		}

		slot, _ := m.Slot(clock)
		err = s.notifier.Notify(ctx, Reminder{User: user, Medication: m, Slot: slot, Date: today, Snoozed: snoozed})
		if err != nil {
			logger.Error("failed to send reminder", zap.Error(err))
			return
		}

		logger.Info("sent reminder", zap.String("date", today.String()), zap.Bool("snoozed", snoozed))

		s.mu.Lock()
		delay := s.snooze
		s.mu.Unlock()

		if !snoozed && delay > 0 {
			s.Snooze(ctx, user, id, clock, delay)
		}

		return
	}

	logger.Debug("dose not due today")
}

// Snooze sends a one-off reminder for the dose after delay
func (s *Scheduler) Snooze(ctx context.Context, user *db.User, id medication.ID, clock string, delay time.Duration) {
	if delay <= 0 {
		delay = DefaultSnooze
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.wg.Add(1)

	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		defer s.wg.Done()

		s.mu.Lock()
		delete(s.snoozes, timer)
		s.mu.Unlock()

		s.fire(ctx, user, id, clock, true)
	})

	s.snoozes[timer] = struct{}{}
}

// Start running jobs in the background
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop the scheduler, cancel pending snoozes and wait for running jobs
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()

	s.mu.Lock()
	for timer := range s.snoozes {
		if timer.Stop() {
			s.wg.Done()
		}
		delete(s.snoozes, timer)
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Scheduler) logStatus() {
	status := s.Status()
	s.logger.Info("reminder status",
		zap.Int("scheduled", status.Scheduled),
		zap.Int("snoozed", status.Snoozed),
		zap.Time("next", status.Next),
	)
}

// Run syncs, starts the scheduler and re-syncs every interval until ctx is done
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) error {
	if err := s.Sync(ctx); err != nil {
		return err
	}

	s.logStatus()

	s.Start()
	defer s.Stop()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.Sync(ctx); err != nil {
				s.logger.Error("failed to sync reminders", zap.Error(err))
				continue
			}

			s.logStatus()

		case <-ctx.Done():
			return nil
		}
	}
}

// Status of scheduled and snoozed reminders
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := Status{Scheduled: len(s.jobs), Snoozed: len(s.snoozes)}
	for _, j := range s.jobs {
		next := s.cron.Entry(j.id).Next
		if next.IsZero() {
			sched, err := cron.ParseStandard(j.schedule)
			if err != nil {
				continue
			}

			next = sched.Next(s.now().In(s.loc))
		}

		if status.Next.IsZero() || next.Before(status.Next) {
			status.Next = next
		}
	}

	return status
}

type cronLogger struct {
	sugar *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}
