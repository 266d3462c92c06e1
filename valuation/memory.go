package valuation

import (
	"fmt"

	"github.com/shirou/gopsutil/mem"
	log "github.com/sirupsen/logrus"

	"github.com/bcdannyboy/optpricer/models"
)

// Share of available memory a single path buffer may take.
const pathBudgetFraction = 0.5

func availableMemory() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return vm.Available, nil
}

// checkPathBudget refuses monte carlo runs whose path buffer would not fit
// in memory. An unreadable memory reading is logged and ignored.
func (s *Service) checkPathBudget(simulations, steps int) error {
	if s.AvailableMemory == nil {
		return nil
	}
	avail, err := s.AvailableMemory()
	if err != nil {
		log.WithError(err).Warn("could not read available memory, skipping path buffer check")
		return nil
	}

	need := float64(simulations) * float64(steps+1) * 8
	if need > float64(avail)*pathBudgetFraction {
		return fmt.Errorf("%w: %d paths x %d columns need %.0f MiB for the path buffer, only %.0f MiB available",
			models.ErrDomain, simulations, steps+1, need/(1<<20), float64(avail)/(1<<20))
	}
	return nil
}
