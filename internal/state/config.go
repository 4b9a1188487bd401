package state

import (
	"path/filepath"
	"sync"

	"github.com/hashicorp/hcl"
	"github.com/juju/errors"
	"github.com/temoto/printpanel/helpers"
	"github.com/temoto/printpanel/internal/tele"
	"github.com/temoto/printpanel/log2"
)

type Config struct {
	// includeSeen contains absolute paths to prevent include loops
	includeSeen map[string]struct{}
	// only used for Unmarshal, do not access
	XXX_Include []ConfigSource `hcl:"include"`

	Persist struct {
		Root string `hcl:"root"`
	} `hcl:"persist"`

	Display struct {
		Device        string `hcl:"device"`
		Baud          int    `hcl:"baud"`
		Codepage      string `hcl:"codepage"`
		Brightness    int    `hcl:"brightness"`
		DimSec        int    `hcl:"dim_sec"`
		DimBrightness int    `hcl:"dim_brightness"`
		LogDebug      bool   `hcl:"log_debug"`
	} `hcl:"display"`

	Printer struct {
		Device          string `hcl:"device"`
		Baud            int    `hcl:"baud"`
		HasProbe        bool   `hcl:"has_probe"`
		LineTimeoutSec  int    `hcl:"line_timeout_sec"`
		PollIntervalSec int    `hcl:"poll_interval_sec"`
		LogDebug        bool   `hcl:"log_debug"`
	} `hcl:"printer"`

	Panel struct {
		TickMs   int    `hcl:"tick_ms"`
		Language string `hcl:"language"`
	} `hcl:"panel"`

	Tele tele.Config `hcl:"tele"`

	_copy_guard sync.Mutex //nolint:unused
}

type ConfigSource struct {
	Name     string `hcl:"name,key"`
	Optional bool   `hcl:"optional"`
}

func (c *Config) read(log *log2.Log, fs FullReader, source ConfigSource, errs *helpers.ErrorList) {
	norm := fs.Normalize(source.Name)
	if _, ok := c.includeSeen[norm]; ok {
		log.Fatalf("config duplicate source=%s", source.Name)
	} else {
		log.Debugf("config reading source='%s' path=%s", source.Name, norm)
	}
	c.includeSeen[source.Name] = struct{}{}
	c.includeSeen[norm] = struct{}{}

	bs, err := fs.ReadAll(norm)
	if bs == nil && err == nil {
		if !source.Optional {
			err = errors.NotFoundf("config required name=%s path=%s", source.Name, norm)
			errs.Add(err)
		}
		return
	}
	if err != nil {
		errs.Addf(err, "config source=%s", source.Name)
		return
	}

	err = hcl.Unmarshal(bs, c)
	if err != nil {
		err = errors.Annotatef(err, "config unmarshal source=%s content='%s'", source.Name, string(bs))
		errs.Add(err)
		return
	}

	var includes []ConfigSource
	includes, c.XXX_Include = c.XXX_Include, nil
	for _, include := range includes {
		includeNorm := fs.Normalize(include.Name)
		if _, ok := c.includeSeen[includeNorm]; ok {
			err = errors.Errorf("config include loop: from=%s include=%s", source.Name, include.Name)
			errs.Add(err)
			continue
		}
		c.read(log, fs, include, errs)
	}
}

func ReadConfig(log *log2.Log, fs FullReader, names ...string) (*Config, error) {
	if len(names) == 0 {
		log.Fatal("code error [Must]ReadConfig() without names")
	}

	if osfs, ok := fs.(*OsFullReader); ok {
		dir, name := filepath.Split(names[0])
		osfs.SetBase(dir)
		names[0] = name
	}
	c := &Config{
		includeSeen: make(map[string]struct{}),
	}
	var errs helpers.ErrorList
	for _, name := range names {
		c.read(log, fs, ConfigSource{Name: name}, &errs)
	}
	return c, errs.Fold()
}

func MustReadConfig(log *log2.Log, fs FullReader, names ...string) *Config {
	c, err := ReadConfig(log, fs, names...)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	return c
}
