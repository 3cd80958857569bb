package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/ajitpratap0/datatypes/pkg/config"
	"github.com/ajitpratap0/datatypes/pkg/errors"
	"github.com/ajitpratap0/datatypes/pkg/exporter"
	"github.com/ajitpratap0/datatypes/pkg/harness"
	"github.com/ajitpratap0/datatypes/pkg/json"
	"github.com/ajitpratap0/datatypes/pkg/table/check"
	"github.com/ajitpratap0/datatypes/pkg/table/mtype"
	"github.com/ajitpratap0/datatypes/pkg/testutil"
)

type CLISuite struct {
	testutil.Suite
}

func TestCLI(t *testing.T) {
	suite.Run(t, new(CLISuite))
}

// run executes the root command with args and returns its standard output
func (s *CLISuite) run(args ...string) (string, error) {
	root, a := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.ExecuteContext(s.Ctx)
	s.Require().NoError(a.teardown())
	return out.String(), err
}

func (s *CLISuite) TestVersion() {
	out, err := s.run("version")
	s.Require().NoError(err)
	s.Contains(out, "datatypes v"+version)
}

func (s *CLISuite) TestUnknownOutputFormat() {
	_, err := s.run("version", "--output", "yaml")
	s.Error(err)
}

func (s *CLISuite) TestMTypes() {
	out, err := s.run("mtypes", "-o", "json")
	s.Require().NoError(err)

	var infos []mtype.Info
	s.Require().NoError(json.Unmarshal([]byte(out), &infos))
	s.Equal(mtype.Register(), infos)
}

func (s *CLISuite) TestList() {
	out, err := s.run("list")
	s.Require().NoError(err)
	s.Contains(out, "numpy1D")
	s.Contains(out, "absent")

	out, err = s.run("list", "-o", "json")
	s.Require().NoError(err)

	var entries []keyEntry
	s.Require().NoError(json.Unmarshal([]byte(out), &entries))
	s.Len(entries, 8)

	absent := 0
	for _, e := range entries {
		if !e.Representable {
			absent++
			s.Equal(mtype.Numpy1D, e.MType)
			s.Equal(1, e.Index)
		}
	}
	s.Equal(1, absent)
}

func (s *CLISuite) TestShow() {
	out, err := s.run("show", "pd_DataFrame_Table", "1")
	s.Require().NoError(err)
	s.Contains(out, "lossless")
	s.Contains(out, "-0.42857142857142855")

	out, err = s.run("show", "numpy2D", "0", "-o", "json")
	s.Require().NoError(err)

	var obj struct {
		MType     mtype.MType  `json:"mtype"`
		Lossiness string       `json:"lossiness"`
		Data      [][]*float64 `json:"data"`
	}
	s.Require().NoError(json.Unmarshal([]byte(out), &obj))
	s.Equal(mtype.Numpy2D, obj.MType)
	s.Equal("lossy", obj.Lossiness)
	s.Require().Len(obj.Data, 4)
	s.Equal(0.5, *obj.Data[2][0])
}

func (s *CLISuite) TestShowAbsent() {
	_, err := s.run("show", "numpy1D", "1")
	s.Require().Error(err)
	s.True(errors.IsType(err, errors.ErrorTypeUnrepresentable))
}

func (s *CLISuite) TestShowBadArguments() {
	_, err := s.run("show", "numpy3D", "0")
	s.Error(err)

	_, err = s.run("show", "numpy2D", "first")
	s.Error(err)

	_, err = s.run("show", "numpy2D")
	s.Error(err)
}

func (s *CLISuite) TestCheck() {
	out, err := s.run("check", "pd_DataFrame_Table", "1", "-o", "json")
	s.Require().NoError(err)

	var meta check.Metadata
	s.Require().NoError(json.Unmarshal([]byte(out), &meta))
	s.Equal(mtype.PandasDataFrame, meta.MType)
	s.False(meta.IsUnivariate)
	s.Equal(4, meta.NumInstances)
	s.Equal(2, meta.NumFeatures)
	s.Equal([]string{"a", "b"}, meta.FeatureNames)
}

func (s *CLISuite) TestConvert() {
	out, err := s.run("convert", "numpy2D", "pd_DataFrame_Table", "0", "-o", "json")
	s.Require().NoError(err)

	var obj struct {
		Columns []string     `json:"columns"`
		Data    [][]*float64 `json:"data"`
	}
	s.Require().NoError(json.Unmarshal([]byte(out), &obj))
	s.Equal([]string{"0"}, obj.Columns)
	s.Require().Len(obj.Data, 4)
	s.Equal(-3.0, *obj.Data[3][0])
}

func (s *CLISuite) TestConvertMultivariateToVector() {
	_, err := s.run("convert", "pd_DataFrame_Table", "numpy1D", "1")
	s.Require().Error(err)
	s.True(errors.IsType(err, errors.ErrorTypeUnrepresentable))
}

func (s *CLISuite) TestVerify() {
	out, err := s.run("verify", "--workers", "2")
	s.Require().NoError(err)
	s.Contains(out, "0 failed")

	out, err = s.run("verify", "--kind", "check", "-o", "json")
	s.Require().NoError(err)

	var report harness.Report
	s.Require().NoError(json.Unmarshal([]byte(out), &report))
	s.True(report.OK())
	for _, res := range report.Results {
		s.Equal(harness.KindCheck, res.Case.Kind)
	}
}

func (s *CLISuite) TestExport() {
	dest := filepath.Join(s.TempDir, "out")
	out, err := s.run("export", "--dest", dest, "--format", "csv", "--compression", "gzip", "-o", "json")
	s.Require().NoError(err)

	var manifest exporter.Manifest
	s.Require().NoError(json.Unmarshal([]byte(out), &manifest))
	s.Require().Len(manifest.Files, 2)
	s.Equal("Table_0.csv.gz", manifest.Files[0].Name)

	s.FileExists(filepath.Join(dest, "Table_0.csv.gz"))
	s.FileExists(filepath.Join(dest, "Table_1.csv.gz"))
	s.FileExists(filepath.Join(dest, exporter.ManifestName))
}

func (s *CLISuite) TestExportBadFormat() {
	_, err := s.run("export", "--dest", s.TempDir, "--format", "xlsx")
	s.Error(err)
}

func (s *CLISuite) TestConfigInit() {
	path := filepath.Join(s.TempDir, "datatypes.yaml")

	out, err := s.run("config", "init", path)
	s.Require().NoError(err)
	s.Contains(out, path)

	cfg, err := config.Load(path)
	s.Require().NoError(err)
	s.Equal(config.NewConfig().Export.Format, cfg.Export.Format)

	_, err = s.run("config", "init", path)
	s.Error(err)

	_, err = s.run("config", "init", path, "--force")
	s.NoError(err)
}

func (s *CLISuite) TestConfigFileAndMetrics() {
	textfile := filepath.Join(s.TempDir, "datatypes.prom")
	path := filepath.Join(s.TempDir, "datatypes.yaml")
	s.Require().NoError(os.WriteFile(path, []byte(`
log:
  level: warn
metrics:
  enabled: true
  textfile: `+textfile+`
`), 0o600))

	_, err := s.run("verify", "--config", path, "--kind", "absent")
	s.Require().NoError(err)
	s.FileExists(textfile)
}

func (s *CLISuite) TestMissingConfigFile() {
	_, err := s.run("list", "--config", filepath.Join(s.TempDir, "missing.yaml"))
	s.Require().Error(err)
	s.True(errors.IsType(err, errors.ErrorTypeConfig))
}
