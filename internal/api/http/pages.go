package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aqie/air-quality-forecast/internal/content"
	"github.com/aqie/air-quality-forecast/internal/session"
	"github.com/aqie/air-quality-forecast/internal/view"
)

func (h *handler) home(rs *routeSet) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if done, err := switchLanguage(c, rs, func(o *routeSet) string { return o.home }); done {
			return err
		}
		bundle := h.deps.Bundles.For(rs.lang)
		return c.Render(view.Home, view.Page{
			Common: view.NewCommon(bundle, "home", c.Path(), c.Request().URI().QueryArgs().String(), false),
		})
	}
}

// searchPage starts a new search.
func (h *handler) searchPage(rs *routeSet) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if done, err := switchLanguage(c, rs, func(o *routeSet) string { return o.search }); done {
			return err
		}
		bundle := h.deps.Manager.Initialize(sessionFrom(c), rs.lang)
		return c.Render(view.Search, view.SearchPage{
			Common:     view.NewCommon(bundle, "search", c.Path(), "", true),
			FormAction: rs.search,
		})
	}
}

func (h *handler) cookies(c *fiber.Ctx) error {
	bundle := h.deps.Bundles.For(content.ParseLang(c.Query("lang")))
	return c.Render(view.Cookies, view.Page{
		Common: view.NewCommon(bundle, "cookies", c.Path(), "", true),
	})
}

func (h *handler) pollutant(rs *routeSet) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := c.Params("name")
		if done, err := switchLanguage(c, rs, func(o *routeSet) string { return o.pollutantPath(name) }); done {
			return err
		}
		bundle := h.deps.Bundles.For(rs.lang)
		title, ok := bundle.Pollutants[name]
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown pollutant")
		}
		return c.Render(view.PollutantsPrefix+name, view.PollutantPage{
			Common: view.NewCommon(bundle, "pollutant", c.Path(), "", true, "pollutant", title),
			Slug:   name,
			Name:   title,
		})
	}
}

// loadingStatus reports the progress of the current search to the
// preloader. It always answers 200.
func (h *handler) loadingStatus(c *fiber.Ctx) error {
	return c.JSON(session.LoadStatus(sessionFrom(c)))
}
