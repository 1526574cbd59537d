//go:build swag

package swaggerkit

import docs "purchaseinbox/internal/services/api/docs"

// generated by swag init into services/api/docs
var docReader = func() string { return docs.SwaggerInfo.ReadDoc() }
