package config

import (
	"os"

	"github.com/naoina/toml"
	"tlog.app/go/errors"
)

type (
	// Limits cut token text. Labels are cut to Label wherever they appear,
	// so Label <= Operand <= Word.
	Limits struct {
		Label   int `toml:"label"`
		Word    int `toml:"word"`
		Operand int `toml:"operand"`
		Comment int `toml:"comment"`
	}

	Config struct {
		Limits Limits `toml:"limits"`

		// BatchWindow is the number of source lines read per batch.
		BatchWindow int `toml:"batch_window"`

		// Workers is reserved. Values above 1 are accepted and ignored.
		Workers int `toml:"workers"`

		// BufferChunk is the instruction buffer growth step in bytes.
		BufferChunk int `toml:"buffer_chunk"`

		DataBase   uint32 `toml:"data_base"`
		MaxSymbols int    `toml:"max_symbols"`
	}
)

func Default() Config {
	return Config{
		Limits: Limits{
			Label:   31,
			Word:    63,
			Operand: 63,
			Comment: 255,
		},
		BatchWindow: 1000,
		Workers:     1,
		BufferChunk: 64,
	}
}

// Load reads name as toml on top of Default.
func Load(name string) (c Config, err error) {
	c = Default()

	data, err := os.ReadFile(name)
	if err != nil {
		return c, errors.Wrap(err, "read config")
	}

	err = toml.Unmarshal(data, &c)
	if err != nil {
		return c, errors.Wrap(err, "parse config %v", name)
	}

	err = c.Validate()
	if err != nil {
		return c, errors.Wrap(err, "config %v", name)
	}

	return c, nil
}

func (c Config) Validate() error {
	switch {
	case c.Limits.Label <= 0:
		return errors.New("label limit: %d", c.Limits.Label)
	case c.Limits.Word <= 0:
		return errors.New("word limit: %d", c.Limits.Word)
	case c.Limits.Operand <= 0:
		return errors.New("operand limit: %d", c.Limits.Operand)
	case c.Limits.Label > c.Limits.Operand:
		return errors.New("label limit %d is above operand limit %d", c.Limits.Label, c.Limits.Operand)
	case c.Limits.Operand > c.Limits.Word:
		return errors.New("operand limit %d is above word limit %d", c.Limits.Operand, c.Limits.Word)
	case c.Limits.Comment <= 0:
		return errors.New("comment limit: %d", c.Limits.Comment)
	case c.BatchWindow <= 0:
		return errors.New("batch window: %d", c.BatchWindow)
	case c.BufferChunk <= 0 || c.BufferChunk%4 != 0:
		return errors.New("buffer chunk must be a positive multiple of 4: %d", c.BufferChunk)
	case c.MaxSymbols < 0:
		return errors.New("max symbols: %d", c.MaxSymbols)
	}

	return nil
}
