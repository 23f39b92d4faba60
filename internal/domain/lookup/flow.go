// Package lookup implementa la página pública de un tag: resolver el ID y
// registrar un escaneo por carga, con o sin ubicación.
package lookup

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"pet-tag-lookup/internal/domain/scans"
	"pet-tag-lookup/internal/domain/tags"
	"pet-tag-lookup/internal/platform/logger"
	"pet-tag-lookup/internal/platform/metrics"

	"github.com/google/uuid"
)

const (
	DefaultLocationTimeout = 60 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultMaxPending      = 10000
)

var (
	// ErrUnknownScan: token inexistente, ya usado, vencido o de otra mascota.
	ErrUnknownScan = errors.New("unknown scan")
)

type Resolver interface {
	Resolve(ctx context.Context, lookupID string) (tags.LookupResult, error)
}

type ScanRecorder interface {
	Record(ctx context.Context, in scans.RecordInput) (scans.ScanEvent, error)
}

type Options struct {
	// cuánto se espera el resultado de geolocalización del navegador
	LocationTimeout time.Duration
	WriteTimeout    time.Duration

	// MaxPending acota los escaneos en espera. Con el cupo lleno la carga se
	// registra al toque como unavailable y no se emite scan token.
	MaxPending int

	Logger logger.Logger
}

// Visit son los datos de quien carga la página.
type Visit struct {
	UserAgent string
}

// Page es lo que se renderiza. ScanToken solo viene si Outcome es found.
type Page struct {
	Result    tags.LookupResult
	ScanToken string
}

type pendingScan struct {
	petID     string
	ownerID   string
	userAgent string
	timer     *time.Timer
}

// Flow resuelve IDs públicos y registra exactamente un ScanEvent por cada
// carga con resultado found. El escaneo queda pendiente hasta que llega el
// resultado de geolocalización, vence el timeout o se cierra el Flow; lo que
// pase primero. La escritura nunca bloquea ni afecta la respuesta.
type Flow struct {
	resolver Resolver
	recorder ScanRecorder
	log      logger.Logger

	locationTimeout time.Duration
	writeTimeout    time.Duration
	maxPending      int
	newToken        func() string

	mu      sync.Mutex
	pending map[string]*pendingScan
	closed  bool
	wg      sync.WaitGroup
}

func NewFlow(resolver Resolver, recorder ScanRecorder, opts Options) *Flow {
	if opts.LocationTimeout <= 0 {
		opts.LocationTimeout = DefaultLocationTimeout
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = DefaultWriteTimeout
	}
	if opts.MaxPending <= 0 {
		opts.MaxPending = DefaultMaxPending
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Flow{
		resolver:        resolver,
		recorder:        recorder,
		log:             opts.Logger,
		locationTimeout: opts.LocationTimeout,
		writeTimeout:    opts.WriteTimeout,
		maxPending:      opts.MaxPending,
		newToken:        uuid.NewString,
		pending:         make(map[string]*pendingScan),
	}
}

// Lookup resuelve rawID. Los errores del store se devuelven tal cual y no
// generan escaneo.
func (f *Flow) Lookup(ctx context.Context, rawID string, v Visit) (Page, error) {
	res, err := f.resolver.Resolve(ctx, rawID)
	if err != nil {
		return Page{}, err
	}
	if res.Outcome != tags.OutcomeFound {
		return Page{Result: res}, nil
	}

	return Page{Result: res, ScanToken: f.register(res.Pet.ID, res.Pet.OwnerID, v)}, nil
}

func (f *Flow) register(petID, ownerID string, v Visit) string {
	token := f.newToken()

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ""
	}

	p := &pendingScan{
		petID:     petID,
		ownerID:   ownerID,
		userAgent: v.UserAgent,
	}
	if len(f.pending) >= f.maxPending {
		f.write(p, scans.LocationUnavailable, nil)
		return ""
	}

	p.timer = time.AfterFunc(f.locationTimeout, func() {
		f.expire(token)
	})
	f.pending[token] = p
	metrics.PendingScans.Inc()
	return token
}

// Complete cierra el escaneo pendiente con el resultado del navegador.
// Un token se puede usar una sola vez.
func (f *Flow) Complete(petID, token string, status scans.LocationStatus, loc *scans.Location) error {
	if err := scans.ValidateLocation(status, loc); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.pending[token]
	if !ok || !strings.EqualFold(p.petID, strings.TrimSpace(petID)) {
		return ErrUnknownScan
	}
	f.take(token, p)
	f.write(p, status, loc)
	return nil
}

func (f *Flow) expire(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.pending[token]
	if !ok {
		return
	}
	f.take(token, p)
	f.write(p, scans.LocationUnavailable, nil)
}

// take saca p de pending. Requiere f.mu.
func (f *Flow) take(token string, p *pendingScan) {
	p.timer.Stop()
	delete(f.pending, token)
	metrics.PendingScans.Dec()
}

// write lanza la escritura en background. Requiere f.mu, así wg.Add nunca
// corre en paralelo con el Wait de Close.
func (f *Flow) write(p *pendingScan, status scans.LocationStatus, loc *scans.Location) {
	in := scans.RecordInput{
		PetID:     p.petID,
		OwnerID:   p.ownerID,
		Status:    status,
		Location:  loc,
		UserAgent: p.userAgent,
	}

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), f.writeTimeout)
		defer cancel()

		if _, err := f.recorder.Record(ctx, in); err != nil {
			// best effort: se loguea y se descarta, sin reintentos
			f.log.Warn("scan write failed", map[string]any{
				"pet_id":          in.PetID,
				"location_status": string(in.Status),
				"error":           err,
			})
		}
	}()
}

// Pending devuelve cuántos escaneos esperan resultado de geolocalización.
func (f *Flow) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

// Close cierra los escaneos pendientes como unavailable y espera las
// escrituras en curso (o a que venza ctx).
func (f *Flow) Close(ctx context.Context) error {
	f.mu.Lock()
	if !f.closed {
		f.closed = true
		for token, p := range f.pending {
			f.take(token, p)
			f.write(p, scans.LocationUnavailable, nil)
		}
	}
	f.mu.Unlock()

	done := make(chan struct{})
	go func() {
		f.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
