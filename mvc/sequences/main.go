package sequences

import (
	"errors"
	"net/http"

	"github.com/labstack/echo"

	"primerdesign/api/contexts"
	"primerdesign/api/models/dtos"
	e "primerdesign/api/models/dtos/errors"
	"primerdesign/api/services/primers"
	"primerdesign/api/services/sequences"
)

func GetSequencesOverview(c echo.Context) error {
	return c.JSON(http.StatusOK, dtos.SequencesOverviewDTO{
		Cache: c.(*contexts.PrimerContext).Cache.Overview(),
	})
}

// GetSequence resolves an identifier through the cache. The bases are only
// included with includeSequence=true.
func GetSequence(c echo.Context) error {
	pc := c.(*contexts.PrimerContext)
	identifier := sequences.NormalizeIdentifier(c.Param("identifier"))

	seq, err := pc.Cache.Get(c.Request().Context(), identifier)
	if err != nil {
		if errors.Is(err, sequences.ErrSequenceFetch) {
			return c.JSON(http.StatusNotFound, e.CreateSimpleNotFound(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, e.CreateSimpleInternalServerError(err.Error()))
	}

	gc, _ := primers.GcPercent(string(seq))
	dto := dtos.SequenceResponseDTO{
		Identifier: identifier,
		Length:     len(seq),
		GcPercent:  gc,
	}
	if c.QueryParam("includeSequence") == "true" {
		dto.Sequence = string(seq)
	}
	return c.JSON(http.StatusOK, dto)
}

