package server

import (
	"bytes"
	"errors"
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/krisalay/yuv-frame-cache/frame"
	"github.com/krisalay/yuv-frame-cache/logging"
	"github.com/krisalay/yuv-frame-cache/session"
	"github.com/krisalay/yuv-frame-cache/source"
	"github.com/krisalay/yuv-frame-cache/yuv"
)

type controller struct {
	sess *session.Session
}

func MountController(router fiber.Router, sess *session.Session) {
	ctl := &controller{sess: sess}

	router.Get("/", ctl.ListSources)
	router.Post("/", ctl.OpenSource)
	router.Get("/:id", ctl.GetSource)
	router.Put("/:id/params", ctl.SetParams)
	router.Get("/:id/frames/:idx", ctl.GetFrame)
	router.Get("/:id/pixel", ctl.GetPixel)
	router.Delete("/:id", ctl.CloseSource)
}

func errorJSON(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// statusOf maps domain errors onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, os.ErrNotExist):
		return fiber.StatusNotFound
	case errors.Is(err, source.ErrUnsupportedFormat),
		errors.Is(err, frame.ErrInvalidSize),
		errors.Is(err, frame.ErrInvalidPixelFormat):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func (ctl *controller) object(c *fiber.Ctx) (*frame.Object, error) {
	id := sourceID{ID: c.Params("id")}
	if err := id.Validate(); err != nil {
		return nil, session.ErrNotFound
	}
	return ctl.sess.Get(id.ID)
}

func (ctl *controller) ListSources(c *fiber.Ctx) error {
	return c.JSON(ctl.sess.List())
}

func (ctl *controller) OpenSource(c *fiber.Ctx) error {
	var body OpenSourceBody
	if err := c.BodyParser(&body); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err)
	}

	if err := body.Validate(); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err)
	}

	id, obj, err := ctl.sess.Open(body.Path)
	if err != nil {
		logging.Op().Warn("open source failed", "path", body.Path, "error", err)
		return errorJSON(c, statusOf(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(session.Entry{ID: id, Info: obj.Info()})
}

func (ctl *controller) GetSource(c *fiber.Ctx) error {
	obj, err := ctl.object(c)
	if err != nil {
		return errorJSON(c, statusOf(err), err)
	}
	return c.JSON(session.Entry{ID: c.Params("id"), Info: obj.Info()})
}

func (ctl *controller) SetParams(c *fiber.Ctx) error {
	obj, err := ctl.object(c)
	if err != nil {
		return errorJSON(c, statusOf(err), err)
	}

	var body ParamsBody
	if err := c.BodyParser(&body); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err)
	}

	if err := body.Validate(); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err)
	}

	p := obj.Params()
	if body.Width > 0 {
		p.Width = body.Width
	}
	if body.Height > 0 {
		p.Height = body.Height
	}
	if body.PixelFormat != "" {
		p.PixelFormat, _ = yuv.ParsePixelFormat(body.PixelFormat)
	}
	if body.ColorConversion != "" {
		p.ColorConversion, _ = yuv.ParseColorConversion(body.ColorConversion)
	}
	if body.Interpolation != "" {
		p.Interpolation, _ = yuv.ParseInterpolation(body.Interpolation)
	}

	if err := obj.SetParams(c.UserContext(), p); err != nil {
		return errorJSON(c, statusOf(err), err)
	}

	return c.JSON(session.Entry{ID: c.Params("id"), Info: obj.Info()})
}

func (ctl *controller) GetFrame(c *fiber.Ctx) error {
	obj, err := ctl.object(c)
	if err != nil {
		return errorJSON(c, statusOf(err), err)
	}

	idx, err := c.ParamsInt("idx")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err)
	}

	query := ExportQuery{
		Format:  c.Query("format", "png"),
		Width:   c.QueryInt("width"),
		Height:  c.QueryInt("height"),
		Quality: c.QueryInt("quality"),
	}
	if err := query.Validate(); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err)
	}
	opts := query.Options()

	img, err := obj.LoadFullFrame(c.UserContext(), idx)
	if err != nil {
		return errorJSON(c, statusOf(err), err)
	}
	if img == nil {
		return errorJSON(c, fiber.StatusNotFound, frame.ErrNoFrame)
	}

	var buf bytes.Buffer
	if err := frame.Encode(&buf, img, opts); err != nil {
		return errorJSON(c, statusOf(err), err)
	}

	c.Context().SetContentType(frame.ContentType(opts.Format))
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}

func (ctl *controller) GetPixel(c *fiber.Ctx) error {
	obj, err := ctl.object(c)
	if err != nil {
		return errorJSON(c, statusOf(err), err)
	}

	x, y := c.QueryInt("x", -1), c.QueryInt("y", -1)
	px, ok := obj.Pixel(c.UserContext(), x, y)

	return c.JSON(fiber.Map{
		"x":     x,
		"y":     y,
		"index": obj.LastIndex(),
		"valid": ok,
		"value": px.Packed(),
		"r":     px.R,
		"g":     px.G,
		"b":     px.B,
	})
}

func (ctl *controller) CloseSource(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := ctl.sess.Close(id); err != nil {
		return errorJSON(c, statusOf(err), err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
