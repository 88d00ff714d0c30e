package holiday

import (
	"time"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/civil"
)

type Holiday struct {
	ID        string
	Name      string
	Date      civil.Date
	CreatedAt time.Time
	UpdatedAt time.Time
}
