package httpserver

import (
	"math"
	"net/http"
	"strconv"

	"relDB/internal/index"
	"relDB/internal/schema"
	"relDB/internal/table"
	"relDB/internal/types"
)

type (
	CreateTableReqBody struct {
		Name       string   `validate:"required"`
		Attributes []string `validate:"required,min=1"`
		Domains    []string `validate:"required,min=1"`
		Key        []string `validate:"required,min=1"`
		// Empty means the engine default.
		Index string
	}

	InsertReqBody struct {
		// One entry per attribute; null inserts a null.
		Rows [][]*string `validate:"required,min=1"`
	}

	InsertResp struct {
		Positions []int
	}

	TableResp struct {
		Name       string
		Attributes []string
		Domains    []string
		Key        []string
		Index      string
		Rows       [][]any
	}
)

// jsonValue maps v to something every JSON encoder accepts: non-finite
// floats are sent as their printed form.
func jsonValue(v types.Value) any {
	if v.Type.IsFloat() && (math.IsNaN(v.F64) || math.IsInf(v.F64, 0)) {
		return v.String()
	}
	if v.Type == types.TypeChar {
		return v.String()
	}
	return v.Interface()
}

func tableResp(t *table.Table, rows []types.Tuple) TableResp {
	doms := t.Domains()
	resp := TableResp{
		Name:       t.Name(),
		Attributes: t.Attributes(),
		Domains:    make([]string, len(doms)),
		Key:        t.Key(),
		Index:      t.IndexKind().String(),
		Rows:       make([][]any, len(rows)),
	}
	for i, d := range doms {
		resp.Domains[i] = d.String()
	}
	for i, tup := range rows {
		row := make([]any, len(tup))
		for j, v := range tup {
			row[j] = jsonValue(v)
		}
		resp.Rows[i] = row
	}
	return resp
}

func (s *HTTPServer) ListTables(c *CustomContext) error {
	names, err := s.eng.ListTables()
	if err != nil {
		return c.InternalError(err, "error listing tables")
	}
	return c.JSON(http.StatusOK, names)
}

func (s *HTTPServer) CreateTable(c *CustomContext) error {
	var reqBody CreateTableReqBody
	if err := ValidateRequest(c, &reqBody); err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}

	def := schema.Definition{
		Name:       reqBody.Name,
		Attributes: reqBody.Attributes,
		Domains:    make([]types.DataType, len(reqBody.Domains)),
		Key:        reqBody.Key,
	}
	for i, d := range reqBody.Domains {
		dt, err := types.ParseDataType(d)
		if err != nil {
			return c.String(http.StatusBadRequest, err.Error())
		}
		def.Domains[i] = dt
	}

	kind := s.eng.Config().IndexKind
	if reqBody.Index != "" {
		k, err := index.ParseKind(reqBody.Index)
		if err != nil {
			return c.String(http.StatusBadRequest, err.Error())
		}
		kind = k
	}

	t, err := s.eng.CreateTableWithIndex(def, kind)
	if err != nil {
		return c.Fail(err, "error creating table")
	}
	return c.JSON(http.StatusCreated, tableResp(t, nil))
}

func (s *HTTPServer) GetTable(c *CustomContext) error {
	name := c.Param("name")
	_, rows, err := s.eng.SelectAll(name)
	if err != nil {
		return c.Fail(err, "error selecting table")
	}
	t, err := s.eng.Table(name)
	if err != nil {
		return c.Fail(err, "error getting table")
	}
	return c.JSON(http.StatusOK, tableResp(t, rows))
}

func (s *HTTPServer) DropTable(c *CustomContext) error {
	if err := s.eng.DropTable(c.Param("name")); err != nil {
		return c.Fail(err, "error dropping table")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *HTTPServer) RenderTable(c *CustomContext) error {
	withIndex := c.QueryParam("index") == "1" || c.QueryParam("index") == "true"
	out, err := s.eng.Render(c.Param("name"), withIndex)
	if err != nil {
		return c.Fail(err, "error rendering table")
	}
	return c.String(http.StatusOK, out)
}

func (s *HTTPServer) InsertRows(c *CustomContext) error {
	var reqBody InsertReqBody
	if err := ValidateRequest(c, &reqBody); err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}

	positions, err := s.eng.InsertBatch(c.Param("name"), reqBody.Rows)
	if err != nil {
		return c.Fail(err, "error inserting rows")
	}
	return c.JSON(http.StatusCreated, InsertResp{Positions: positions})
}

func (s *HTTPServer) GetRow(c *CustomContext) error {
	pos, err := strconv.Atoi(c.Param("pos"))
	if err != nil {
		return c.String(http.StatusBadRequest, "position must be an integer")
	}
	name := c.Param("name")
	tup, err := s.eng.GetRow(name, pos)
	if err != nil {
		return c.Fail(err, "error getting row")
	}
	row := make([]any, len(tup))
	for i, v := range tup {
		row[i] = jsonValue(v)
	}
	return c.JSON(http.StatusOK, row)
}
