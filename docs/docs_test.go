package docs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swaggo/swag"
)

// Шаблон должен рендериться зарегистрированным инстансом:
// ловит расхождения между docTemplate и полями swag.Spec.
func TestSwaggerDoc_Renders(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	assert.Contains(t, doc, `"title": "Book Review API"`)
	assert.Contains(t, doc, "/api/auth/login")
	assert.Contains(t, doc, "/api/books/{uuid}/cover")
	assert.Contains(t, doc, "requestresponse.ErrorResponse")
}
