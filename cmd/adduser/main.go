// Command adduser creates an operator, manager or administrator account.
//
//	DB_DRIVER=sqlite DB_DSN=cafeteria.db adduser --username abebe --email abebe@moe.gov.et --role manager
//
// The password is read from --password or, when omitted, from ADDUSER_PASSWORD.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ethernet-moe/cafeteria-backend/internal/config"
	"github.com/ethernet-moe/cafeteria-backend/internal/database"
	"github.com/ethernet-moe/cafeteria-backend/internal/models"
	"github.com/ethernet-moe/cafeteria-backend/internal/repository"
	"github.com/ethernet-moe/cafeteria-backend/internal/service"
	"github.com/ethernet-moe/cafeteria-backend/pkg/logger"
	flag "github.com/spf13/pflag"
)

func main() {
	var req models.UserRequest
	flag.StringVarP(&req.Username, "username", "u", "", "login name (required)")
	flag.StringVarP(&req.Email, "email", "e", "", "email address (required)")
	flag.StringVarP(&req.FullName, "full-name", "n", "", "display name")
	flag.StringVarP(&req.Password, "password", "p", "", "password, at least 8 characters (default $ADDUSER_PASSWORD)")
	flag.StringVarP(&req.Role, "role", "r", string(models.RoleOperator), "ADMIN, MANAGER or OPERATOR")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	if req.Password == "" {
		req.Password = os.Getenv("ADDUSER_PASSWORD")
	}
	if req.Username == "" || req.Email == "" {
		fmt.Fprintln(os.Stderr, "--username and --email are required")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(req, *logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating user: %v\n", err)
		os.Exit(1)
	}
}

func run(req models.UserRequest, logLevel string) error {
	log := logger.New(logLevel)

	cfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}

	db, err := database.Open(cfg, log)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := service.NewUserService(repository.NewUserRepository(db), log)
	user, err := users.Create(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("User created successfully: %s (%s, %s)\n", user.Username, user.Email, user.Role)
	return nil
}
