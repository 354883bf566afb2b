package contexts

import (
	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/labstack/echo"
	"go.uber.org/zap"

	"primerdesign/api/models"
	"primerdesign/api/services"
	"primerdesign/api/services/design"
	"primerdesign/api/services/sequences"
)

type (
	// "Helper" Context to pass into routes that need
	//  the design singletons and other variables
	PrimerContext struct {
		echo.Context
		Config       *models.Config
		Log          *zap.Logger
		Es7Client    *es7.Client // nil when persistence is disabled
		Orchestrator *design.Orchestrator
		Cache        *sequences.Cache
		JobService   *services.JobService

		// populated by middleware
		DesignParameters models.DesignParameters
		Target           string
	}
)
