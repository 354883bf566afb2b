package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo"
	"go.uber.org/zap"

	"primerdesign/api/models"
	authz "primerdesign/api/models/authorization"
	authzc "primerdesign/api/models/constants/authorization"
	dtos "primerdesign/api/models/dtos/authorization"
	e "primerdesign/api/models/dtos/errors"
)

// DefaultAuthzTimeout bounds a policy evaluation when none is configured.
const DefaultAuthzTimeout = 10 * time.Second

var publicAuthzErrorMessage string = "Something went wrong interfacing with the authorization service! Please contact the system administrators.."

type (
	AuthzService struct {
		isEnabled        bool
		authorizationUrl string
		client           *http.Client
		logger           *zap.Logger
	}
)

func NewAuthzService(cfg *models.Config, logger *zap.Logger) *AuthzService {
	timeout := cfg.AuthX.Timeout
	if timeout <= 0 {
		timeout = DefaultAuthzTimeout
	}
	return &AuthzService{
		isEnabled:        cfg.AuthX.IsAuthorizationEnabled,
		authorizationUrl: strings.TrimRight(cfg.AuthX.AuthorizationUrl, "/"),
		client:           &http.Client{Timeout: timeout},
		logger:           logger.Named("authz"),
	}
}

func (a *AuthzService) IsEnabled() bool {
	return a.isEnabled
}

func (a *AuthzService) GetAuthorizationUrl() string {
	return a.authorizationUrl
}

// RequiredVerb picks the permission a request needs: designs and batches
// create data, single-primer analysis analyzes it, the rest queries it.
func RequiredVerb(method string, path string) authzc.PermissionVerb {
	switch {
	case strings.HasPrefix(path, "/primers/analyze"):
		return authzc.ANALYZE
	case method == http.MethodPost:
		return authzc.CREATE
	default:
		return authzc.QUERY
	}
}

func (a *AuthzService) EnsureRepositoryAccessPermittedForUser(ctx context.Context, authnTokenString string, verb authzc.PermissionVerb) error {
	//	- validate authn token against external authorization service
	permissionRequestJson := dtos.PermissionRequestDto{
		RequestedResource: authz.ResourceEverything{Everything: true},
		RequiredPermissions: authz.PermissionsList{
			List: []authz.Permission{
				{Verb: verb, Noun: authzc.DATA},
			},
		},
	}

	permJsonData, permissionJsonMarshallErr := json.Marshal(&permissionRequestJson)
	if permissionJsonMarshallErr != nil {
		a.logger.Error("encoding permission request", zap.Error(permissionJsonMarshallErr))
		return errors.New(publicAuthzErrorMessage)
	}

	evaluateUrl := fmt.Sprintf("%s/%s/%s", a.GetAuthorizationUrl(), "policy", "evaluate")
	permReq, permReqErr := http.NewRequestWithContext(ctx, http.MethodPost, evaluateUrl, bytes.NewBuffer(permJsonData))
	if permReqErr != nil {
		a.logger.Error("building permission request", zap.Error(permReqErr))
		return errors.New(publicAuthzErrorMessage)
	}
	permReq.Header.Add("Authorization", "Bearer "+authnTokenString)
	permReq.Header.Add("Content-Type", "application/json")

	permRes, permResErr := a.client.Do(permReq)
	if permResErr != nil {
		a.logger.Error("calling authorization service", zap.Error(permResErr))
		return errors.New(publicAuthzErrorMessage)
	}
	defer permRes.Body.Close()

	if permRes.StatusCode != http.StatusOK {
		return errors.New("access denied")
	}

	var permJson map[string]interface{}
	if err := json.NewDecoder(permRes.Body).Decode(&permJson); err != nil {
		a.logger.Error("decoding authorization response", zap.Error(err))
		return errors.New(publicAuthzErrorMessage)
	}

	accessPermitted, isMapContainsKey := permJson["result"]
	if !isMapContainsKey {
		a.logger.Error("missing 'result' key from authorization service response")
		return errors.New(publicAuthzErrorMessage)
	}
	if permitted, _ := accessPermitted.(bool); !permitted {
		return errors.New("access denied")
	}
	return nil
}

func (a *AuthzService) FetchAuthorizationHeader(headers http.Header) (string, error) {
	authnToken := headers.Get("Authorization")
	if authnToken == "" {
		return "", errors.New("missing 'Authorization' HTTP header")
	}

	// remove "Bearer " if need be, assuming the header is properly formatted
	if fields := strings.Fields(authnToken); len(fields) == 2 && strings.EqualFold(fields[0], "Bearer") {
		authnToken = fields[1]
	}
	return authnToken, nil
}

func (a *AuthzService) MandateAuthorizationTokensMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if a.IsEnabled() {
			authnToken, missingHeaderErr := a.FetchAuthorizationHeader(c.Request().Header)
			if missingHeaderErr != nil {
				return c.JSON(http.StatusForbidden, e.CreateSimpleForbidden(missingHeaderErr.Error()))
			}

			verb := RequiredVerb(c.Request().Method, c.Request().URL.Path)
			if accessError := a.EnsureRepositoryAccessPermittedForUser(c.Request().Context(), authnToken, verb); accessError != nil {
				return c.JSON(http.StatusUnauthorized, e.CreateSimpleUnauthorized(accessError.Error()))
			}
		}

		return next(c)
	}
}
