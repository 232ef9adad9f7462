package main

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/pthm/tagview"
	tagviewecho "github.com/pthm/tagview/adapters/echo"
	"github.com/pthm/tagview/example/components"
	"github.com/pthm/tagview/lib/views"
)

//go:embed views
var viewFiles embed.FS

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	e, err := newServer(NewStore(), logger)
	if err != nil {
		logger.Fatal("cannot start", zap.Error(err))
	}
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	addr := ":8080"
	logger.Info("starting server", zap.String("addr", "http://localhost"+addr))
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newServer(store *Store, logger *zap.Logger) (*echo.Echo, error) {
	reg := tagview.NewRegistry(tagview.WithLogger(logger))
	if err := components.Register(reg); err != nil {
		return nil, err
	}

	viewFS, err := fs.Sub(viewFiles, "views")
	if err != nil {
		return nil, err
	}
	loader := views.New()
	if err := loader.AddDir(viewFS, "views", 0); err != nil {
		return nil, err
	}

	factory := tagview.NewFactory(reg,
		tagview.WithLogger(logger),
		tagview.WithServices(tagview.ServiceMap{components.StoreService: store}))
	compiler := tagview.NewCompiler(factory,
		tagview.WithLogger(logger),
		tagview.WithLoader(loader))

	e := echo.New()
	e.HideBanner = true
	tagviewecho.Use(e, compiler)
	tagviewecho.Mount(e, compiler)

	e.GET("/", func(c echo.Context) error {
		return c.Render(http.StatusOK, "index.html", map[string]any{"Status": c.QueryParam("status")})
	})
	e.POST("/todos", func(c echo.Context) error {
		if title := c.FormValue("title"); title != "" {
			store.Add(title)
		}
		return c.Redirect(http.StatusSeeOther, "/")
	})
	e.POST("/todos/:id/toggle", func(c echo.Context) error {
		if !store.Toggle(c.Param("id")) {
			return echo.ErrNotFound
		}
		c.Response().Header().Set("HX-Trigger", "todos:changed")
		return c.NoContent(http.StatusNoContent)
	})
	e.DELETE("/todos/:id", func(c echo.Context) error {
		if !store.Delete(c.Param("id")) {
			return echo.ErrNotFound
		}
		c.Response().Header().Set("HX-Trigger", "todos:changed")
		return c.NoContent(http.StatusNoContent)
	})
	return e, nil
}
