package httpserver

import (
	"net/http"

	"relDB/internal/engine"
)

type (
	// OpReqBody is an operator application whose left input comes from
	// the path.
	OpReqBody struct {
		Right      string
		Attrs      []string
		RightAttrs []string
		Condition  string
		Key        []string
		To         []string
	}

	ExportResp struct {
		Path string
	}
)

// RunOp applies the operator named in the path to the table named in the
// path, e.g. POST /tables/movie/select {"Condition": "year > 1980"}.
func (s *HTTPServer) RunOp(c *CustomContext) error {
	kind, err := engine.ParseOpKind(c.Param("op"))
	if err != nil {
		return c.String(http.StatusNotFound, err.Error())
	}
	var reqBody OpReqBody
	if err := ValidateRequest(c, &reqBody); err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}
	return s.run(c, engine.Op{
		Kind:       kind,
		Left:       c.Param("name"),
		Right:      reqBody.Right,
		Attrs:      reqBody.Attrs,
		RightAttrs: reqBody.RightAttrs,
		Condition:  reqBody.Condition,
		Key:        reqBody.Key,
		To:         reqBody.To,
	})
}

// Execute takes a whole operator application in the body.
func (s *HTTPServer) Execute(c *CustomContext) error {
	var op engine.Op
	if err := ValidateRequest(c, &op); err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}
	kind, err := engine.ParseOpKind(string(op.Kind))
	if err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}
	op.Kind = kind
	return s.run(c, op)
}

func (s *HTTPServer) run(c *CustomContext, op engine.Op) error {
	res, err := s.eng.Execute(op)
	if err != nil {
		return c.Fail(err, "error executing "+string(op.Kind))
	}
	return c.JSON(http.StatusCreated, tableResp(res, res.Tuples()))
}

func (s *HTTPServer) SaveTable(c *CustomContext) error {
	if err := s.eng.Save(c.Param("name")); err != nil {
		return c.Fail(err, "error saving table")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *HTTPServer) ListSaved(c *CustomContext) error {
	names, err := s.eng.SavedTables()
	if err != nil {
		return c.InternalError(err, "error listing saved tables")
	}
	if names == nil {
		names = []string{}
	}
	return c.JSON(http.StatusOK, names)
}

func (s *HTTPServer) LoadTable(c *CustomContext) error {
	t, err := s.eng.Load(c.Param("name"))
	if err != nil {
		return c.Fail(err, "error loading table")
	}
	return c.JSON(http.StatusOK, tableResp(t, nil))
}

func (s *HTTPServer) ExportTable(c *CustomContext) error {
	path, err := s.eng.Export(c.Param("name"))
	if err != nil {
		return c.Fail(err, "error exporting table")
	}
	return c.JSON(http.StatusCreated, ExportResp{Path: path})
}
