package bootstrap

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fulldump/box"
	"go.uber.org/zap"

	"github.com/fulldump/calorietracker/api"
	"github.com/fulldump/calorietracker/configuration"
	"github.com/fulldump/calorietracker/metrics"
	"github.com/fulldump/calorietracker/service"
	"github.com/fulldump/calorietracker/session"
)

var VERSION = "dev"

// Bootstrap wires the session, the api and the http server. start blocks
// until both the session and the server are done and returns the first
// failure of either.
func Bootstrap(c *configuration.Configuration, logger *zap.Logger) (start func() error, stop func(), err error) {

	sess := session.New(&session.Config{
		Store:  c.Store,
		Key:    c.Key,
		Logger: logger,
	})

	s := service.NewService(sess, metrics.New())

	b := api.Build(s, s.Metrics(), VERSION, c.ApiKey, c.ApiSecret, c.EnableCompression)
	b.WithInterceptors(
		api.AccessLog(logger.Named("access")),
		api.RecoverFromPanic(logger),
		api.PrettyErrorInterceptor,
	)

	server := &http.Server{
		Addr:              c.HttpAddr,
		Handler:           box.Box2Http(b),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", c.HttpAddr)
	if err != nil {
		return nil, nil, fmt.Errorf("listen %s: %w", c.HttpAddr, err)
	}
	logger.Info("listening", zap.String("addr", ln.Addr().String()), zap.String("version", VERSION))

	stop = func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := server.Shutdown(ctx)
		if err != nil {
			logger.Error("http server shutdown", zap.Error(err))
		}
		err = s.Stop()
		if err != nil {
			logger.Error("session stop", zap.Error(err))
		}
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		for {
			sig := <-signalChan
			logger.Info("signal received", zap.String("signal", sig.String()))
			stop()
		}
	}()

	start = func() error {

		var sessionErr, serverErr error
		wg := &sync.WaitGroup{}

		wg.Add(1)
		go func() {
			defer wg.Done()
			sessionErr = sess.Start()
			if sessionErr != nil {
				logger.Error("session", zap.Error(sessionErr))
				server.Shutdown(context.Background())
			}
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			err := server.Serve(ln)
			if err != nil && err != http.ErrServerClosed {
				logger.Error("http server", zap.Error(err))
				serverErr = err
			}
		}()

		wg.Wait()

		if sessionErr != nil {
			return fmt.Errorf("session: %w", sessionErr)
		}
		return serverErr
	}

	return
}
