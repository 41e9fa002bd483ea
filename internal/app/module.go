package app

import (
	"time"

	"github.com/fieldline/portal/internal/app/api/server"
	"github.com/fieldline/portal/internal/app/service/account"
	"github.com/fieldline/portal/internal/app/service/billing"
	"github.com/fieldline/portal/internal/app/service/directory"
	"github.com/fieldline/portal/internal/app/service/queryproxy"
	"github.com/fieldline/portal/internal/platform/db"
	"github.com/fieldline/portal/internal/platform/payments"
	"github.com/fieldline/portal/pkg/config"
	"github.com/fieldline/portal/pkg/logger"

	"go.uber.org/fx"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	payments.Module,
	server.Module,
	account.Module,
	billing.Module,
	directory.Module,
	queryproxy.Module,
)
