// Package docs provides generated OpenAPI documentation.
//
// Meddoc API
//
//	@title			Meddoc API
//	@version		1.0
//	@description	Medical document analysis API: classify uploaded documents and extract structured fields.
//
//	@contact.name	API Support
//	@contact.url	https://github.com/Rovlad/meddoc-parse
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/meddoc/serve.go -o ./swagger --parseDependency --parseInternal
