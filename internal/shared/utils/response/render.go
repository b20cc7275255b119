package response

import (
	"encoding/json"
	"net/http"

	"activitiesui/internal/shared/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

// Context keys copied into every template context when present
var localKeys = []string{"user", "trace_id"}

// Render writes the named template with a 200 status
func Render(c *gin.Context, name string, data gin.H) {
	RenderStatus(c, http.StatusOK, name, data)
}

// RenderStatus writes the named template. Request locals such as the signed
// in user are added unless data already sets them.
func RenderStatus(c *gin.Context, code int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	for _, key := range localKeys {
		if _, set := data[key]; set {
			continue
		}
		if v, ok := c.Get(key); ok {
			data[key] = v
		}
	}
	c.HTML(code, name, data)
}

// RenderWithErrors re-renders a form page with its field errors and the
// values the user typed. GOV.UK pages answer these with 200, not 400.
func RenderWithErrors(c *gin.Context, name string, data gin.H, errs validation.Errors, formResponses interface{}) {
	if data == nil {
		data = gin.H{}
	}
	data["validationErrors"] = errs
	data["formResponses"] = formResponses
	Render(c, name, data)
}

// SeeOther redirects after a successful post
func SeeOther(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

// ViewModelRender renders the template name and context as JSON instead of
// HTML. It backs local runs without a views directory and handler tests.
type ViewModelRender struct{}

// ViewModel is what ViewModelRender writes
type ViewModel struct {
	Template string                 `json:"template"`
	Context  map[string]interface{} `json:"context"`
}

func (ViewModelRender) Instance(name string, data any) render.Render {
	ctx, _ := data.(gin.H)
	return viewModel{ViewModel{Template: name, Context: ctx}}
}

type viewModel struct {
	model ViewModel
}

func (v viewModel) Render(w http.ResponseWriter) error {
	v.WriteContentType(w)
	return json.NewEncoder(w).Encode(v.model)
}

func (v viewModel) WriteContentType(w http.ResponseWriter) {
	header := w.Header()
	if val := header["Content-Type"]; len(val) == 0 {
		header["Content-Type"] = []string{"application/json; charset=utf-8"}
	}
}
