package common

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"os"
	"path"
	"runtime"

	"github.com/labstack/echo"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v2"

	"primerdesign/api/contexts"
	"primerdesign/api/models"
)

func InitConfig() *models.Config {
	var cfg models.Config

	// get this file's path
	_, filename, _, _ := runtime.Caller(0)
	folderpath := path.Dir(filename)

	// retrieve common's test.config
	f, err := os.Open(fmt.Sprintf("%s/test.config.yml", folderpath))
	if err != nil {
		processError(err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	err = decoder.Decode(&cfg)
	if err != nil {
		processError(err)
	}

	return &cfg
}

func processError(err error) {
	fmt.Println(err)
	os.Exit(2)
}

// SetUpEcho builds a PrimerContext around a recorded request. Callers fill
// in the singletons their handler needs.
func SetUpEcho(cfg *models.Config, method string, target string, body io.Reader) (*contexts.PrimerContext, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	pc := &contexts.PrimerContext{
		Context: c,
		Config:  cfg,
		Log:     zap.NewNop(),
	}
	return pc, rec
}

func GetJsonBody(rec *httptest.ResponseRecorder) map[string]interface{} {
	// - extract body bytes from response
	body, _ := io.ReadAll(rec.Body)
	// - unmarshal or decode the JSON to a declared empty interface.
	var bodyJson map[string]interface{}
	json.Unmarshal(body, &bodyJson)

	return bodyJson
}

// DecodeBody decodes the recorded response into T.
func DecodeBody[T any](rec *httptest.ResponseRecorder) (T, error) {
	var out T
	err := json.Unmarshal(rec.Body.Bytes(), &out)
	return out, err
}
