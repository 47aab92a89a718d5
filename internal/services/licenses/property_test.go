package licenses

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/BearBump/CourierGate/internal/models"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// memRepo: одна лицензия в памяти.
type memRepo struct {
	l models.License
}

func (m *memRepo) GetLicenseByKey(ctx context.Context, key string) (*models.License, error) {
	if key != m.l.LicenseKey {
		return nil, nil
	}
	cp := m.l
	cp.ActivatedDomains = append([]string{}, m.l.ActivatedDomains...)
	return &cp, nil
}

func (m *memRepo) UpdateLicenseStatus(ctx context.Context, id uint64, status string) error {
	m.l.Status = status
	return nil
}

func (m *memRepo) SaveActivations(ctx context.Context, id uint64, count int, domains []string) error {
	m.l.CurrentActivations = count
	m.l.ActivatedDomains = domains
	return nil
}

type op struct {
	Activate bool
	Domain   int
}

func genOps() gopter.Gen {
	return gen.SliceOf(gen.Struct(reflect.TypeOf(op{}), map[string]gopter.Gen{
		"Activate": gen.Bool(),
		"Domain":   gen.IntRange(0, 5),
	}))
}

func TestActivation_DomainBookkeepingProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("domains stay a set, count matches and never exceeds the limit", prop.ForAll(
		func(limit int, ops []op) bool {
			repo := &memRepo{l: models.License{
				ID:               1,
				LicenseKey:       "K",
				Status:           models.LicenseStatusActive,
				ActivationLimit:  limit,
				ActivatedDomains: []string{},
			}}
			svc := New(repo)
			svc.now = func() time.Time { return fixedNow }
			ctx := context.Background()

			for _, o := range ops {
				d := fmt.Sprintf("site%d.com", o.Domain)
				if o.Activate {
					_, _ = svc.Activate(ctx, "K", d)
				} else {
					_, _ = svc.Deactivate(ctx, "K", d)
				}

				seen := map[string]bool{}
				for _, x := range repo.l.ActivatedDomains {
					if seen[x] {
						return false
					}
					seen[x] = true
				}
				if repo.l.CurrentActivations != len(repo.l.ActivatedDomains) {
					return false
				}
				if repo.l.CurrentActivations < 0 || repo.l.CurrentActivations > limit {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 4),
		genOps(),
	))

	properties.Property("activate is idempotent per domain", prop.ForAll(
		func(n int) bool {
			repo := &memRepo{l: models.License{ID: 1, LicenseKey: "K", Status: models.LicenseStatusActive, ActivationLimit: 1}}
			svc := New(repo)
			svc.now = func() time.Time { return fixedNow }
			for i := 0; i < n; i++ {
				res, err := svc.Activate(context.Background(), "K", "one.com")
				if err != nil || !res.Success {
					return false
				}
			}
			return repo.l.CurrentActivations == 1 && len(repo.l.ActivatedDomains) == 1
		},
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
