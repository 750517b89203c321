package folio

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/markdown"
	"github.com/eringen/folio/ogimage"
)

func (a *App) handleHome(c echo.Context) error {
	cat := a.Library.Catalog()
	tag := c.QueryParam("tag")
	posts := cat.List(0)
	if tag != "" {
		posts = cat.ByTag(tag)
	}
	return Render(c, a.Views.Home(posts, tag, cat.Tags(), a.Config))
}

func (a *App) handlePost(c echo.Context) error {
	slug := c.Param("slug")
	post, ok := a.Library.Catalog().Get(slug)
	if !ok {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
	}
	return Render(c, a.Views.Post(post, a.PostBody(post), a.Config))
}

func (a *App) handleFeedXML(c echo.Context) error {
	out, err := GenerateRSS(a.Library.Catalog(), a.Config, a.Components)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", out)
}

func (a *App) handleFeedJSON(c echo.Context) error {
	out, err := GenerateJSONFeed(a.Library.Catalog(), a.Config, a.Components)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/feed+json; charset=utf-8", out)
}

func (a *App) handleSitemap(c echo.Context) error {
	out, err := GenerateSitemap(a.Library.Catalog(), a.Config)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/xml; charset=utf-8", out)
}

// handleOGImage serves the social-card image for link previews. The title
// comes in as a query parameter; an empty one falls back to the default
// text inside the generator.
func (a *App) handleOGImage(c echo.Context) error {
	img, err := a.OG.Card(c.QueryParam("title"))
	if err != nil {
		return err
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	return c.Blob(http.StatusOK, "image/png", img)
}

func handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	return c.File(a.staticDir + "/robots.txt")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	var renderErr *markdown.RenderError
	var cardErr *ogimage.RenderError
	if errors.As(err, &renderErr) || errors.As(err, &cardErr) {
		c.Logger().Errorf("render error: %v", err)
		_ = RenderStatus(c, http.StatusInternalServerError, a.Views.ServerError())
		return
	}
	code := http.StatusInternalServerError
	if he != nil {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
