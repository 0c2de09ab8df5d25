// Command simulate runs many concurrent booking sessions against one
// service instance and reports how the conflict guard held up. Every
// session drives the full wizard; most target the same doctor and day so
// slots run out and commits race.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/medibook/hospital-booking/internal/config"
	"github.com/medibook/hospital-booking/internal/hospital"
	"github.com/medibook/hospital-booking/internal/notify"
	redisclient "github.com/medibook/hospital-booking/internal/redis"
	"github.com/medibook/hospital-booking/internal/wizard"
	"github.com/medibook/hospital-booking/pkg/logging"
)

type metrics struct {
	mu        sync.Mutex
	completed int
	conflicts int
	errors    int
	latencies []time.Duration
}

func (m *metrics) record(latency time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.latencies = append(m.latencies, latency)
	switch {
	case err == nil:
		m.completed++
	case errors.Is(err, hospital.ErrSlotUnavailable):
		m.conflicts++
	default:
		m.errors++
	}
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	sessions := flag.Int("sessions", 50, "concurrent booking sessions")
	daysAhead := flag.Int("days-ahead", 7, "how many days in the future to book")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger := logging.New("warn")

	repo := hospital.NewMemoryRepository(hospital.DefaultDataset())

	locker := redisclient.NewNoopLocker()
	if cfg.RedisEnabled() {
		rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("redis connection error: %v", err)
		}
		defer rdb.Close()
		locker = redisclient.NewRedisBookingLocker(rdb, cfg.LockTTL)
		log.Println("booking lock enabled for the run")
	} else {
		log.Println("no booking lock configured, racing on the re-check alone")
	}

	svc := hospital.NewService(repo, locker, logger)
	notifier := notify.NewService(nil, nil, logger) // stubs, logged only

	ctx := context.Background()

	doctors, err := svc.Doctors(ctx, "")
	if err != nil {
		log.Fatalf("list doctors: %v", err)
	}
	target := doctors[0]
	targetDate := time.Now().AddDate(0, 0, *daysAhead)

	log.Printf("running %d sessions against %s on %s", *sessions, target.Name, targetDate.Format("2006-01-02"))

	gofakeit.Seed(time.Now().UnixNano())

	var m metrics
	var wg sync.WaitGroup

	for i := 0; i < *sessions; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			start := time.Now()
			err := runSession(ctx, svc, notifier, target, targetDate)
			m.record(time.Since(start), err)
		}()
	}
	wg.Wait()

	report(&m)
	audit(ctx, svc, target.ID, targetDate)
}

// runSession walks one wizard session end to end: near-me entry, pick the
// target doctor, pick a random free slot, fill patient details, confirm.
func runSession(ctx context.Context, svc *hospital.Service, notifier *notify.Service, doc hospital.Doctor, date time.Time) error {
	w := wizard.New(svc, notifier, nil)

	if err := w.ChooseMethod(wizard.SearchNearMe); err != nil {
		return err
	}
	if err := w.SelectDoctor(ctx, doc); err != nil {
		return err
	}

	free, err := svc.AvailableSlots(ctx, doc.ID, date)
	if err != nil {
		return err
	}
	if len(free) == 0 {
		return hospital.ErrSlotUnavailable
	}
	slot := free[rand.Intn(len(free))]

	if err := w.SelectSlot(date, slot); err != nil {
		return err
	}
	if err := w.SubmitPatientInfo(gofakeit.Name(), gofakeit.Email(), gofakeit.Phone()); err != nil {
		return err
	}

	_, err = w.Confirm(ctx)
	return err
}

func report(m *metrics) {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := len(m.latencies)
	fmt.Printf("\nsessions:   %d\n", total)
	fmt.Printf("completed:  %d\n", m.completed)
	fmt.Printf("conflicts:  %d\n", m.conflicts)
	fmt.Printf("errors:     %d\n", m.errors)

	if total == 0 {
		return
	}

	sorted := make([]time.Duration, total)
	copy(sorted, m.latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum time.Duration
	for _, l := range sorted {
		sum += l
	}
	fmt.Printf("latency:    avg=%s p50=%s max=%s\n",
		sum/time.Duration(total), sorted[total/2], sorted[total-1])
}

// audit looks for committed double-bookings: with no lock configured, the
// check-then-act window can let two sessions commit the same slot.
func audit(ctx context.Context, svc *hospital.Service, doctorID string, date time.Time) {
	appts, err := svc.Appointments(ctx, hospital.AppointmentFilter{DoctorID: doctorID})
	if err != nil {
		log.Printf("audit failed: %v", err)
		return
	}

	seen := map[string]int{}
	for _, a := range appts {
		if !hospital.SameCalendarDay(a.Date, date) {
			continue
		}
		seen[a.TimeSlot.ID]++
	}

	doubles := 0
	for slotID, n := range seen {
		if n > 1 {
			doubles++
			fmt.Printf("DOUBLE BOOKING: slot %s committed %d times\n", slotID, n)
		}
	}
	if doubles == 0 {
		fmt.Println("audit: no double bookings")
	}
}
