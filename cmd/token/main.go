// token emite un JWT firmado con JWT_SECRET para operar las rutas de escritura.
//
// Uso: go run ./cmd/token -sub operador -role admin [-exp 60]
package main

import (
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/jhoicas/franquicias-api/pkg/config"
	"github.com/jhoicas/franquicias-api/pkg/jwt"
)

func main() {
	subject := flag.String("sub", "operador", "sujeto (operador) del token")
	role := flag.String("role", jwt.RoleAdmin, "rol: admin, manager o viewer")
	exp := flag.Int("exp", 0, "minutos de validez (0 = JWT_EXPIRATION_MINUTES)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if !slices.Contains([]string{jwt.RoleAdmin, jwt.RoleManager, jwt.RoleViewer}, *role) {
		fmt.Fprintf(os.Stderr, "Rol inválido: %s\n", *role)
		os.Exit(1)
	}
	minutes := *exp
	if minutes <= 0 {
		minutes = cfg.JWT.Expiration
	}

	tok, err := jwt.Generate(cfg.JWT.Secret, *subject, *role, cfg.JWT.Issuer, minutes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
