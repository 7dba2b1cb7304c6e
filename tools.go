//go:build tools

package tools

// swag generates docs/swagger/swagger.json from the endpoint annotations.
import _ "github.com/swaggo/swag"
