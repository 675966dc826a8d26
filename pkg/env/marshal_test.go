package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inner struct {
	Token string `env:"TELEGRAM_TOKEN,notEmpty"`
}

type sample struct {
	Driver   string        `env:"RECALL_DB_DRIVER" envDefault:"sqlite3"`
	DSN      string        `env:"RECALL_DB_DSN" desc:"connection string"`
	HTTP     bool          `env:"ENABLE_HTTP"`
	Timeout  time.Duration `env:"RECALL_HTTP_TIMEOUT"`
	Port     int           `env:"PORT"`
	Tags     []string      `env:"TAGS"`
	Nested   inner
	private  string        `env:"PRIVATE"`
	Untagged string
}

func TestMarshalEnv(t *testing.T) {
	s := &sample{
		Driver:   "postgres",
		DSN:      "host=db user=recall sslmode=disable",
		HTTP:     true,
		Timeout:  15 * time.Second,
		Tags:     []string{"a", "b"},
		Nested:   inner{Token: "123:abc"},
		private:  "hidden",
		Untagged: "ignored",
	}

	out, err := MarshalEnv(s)
	require.NoError(t, err)

	assert.Equal(t,
		"RECALL_DB_DRIVER=postgres\n"+
			"# connection string\n"+
			"RECALL_DB_DSN=\"host=db user=recall sslmode=disable\"\n"+
			"ENABLE_HTTP=true\n"+
			"RECALL_HTTP_TIMEOUT=15s\n"+
			"TAGS=a,b\n"+
			"TELEGRAM_TOKEN=123:abc\n",
		out)
}

func TestMarshalEnv_Empty(t *testing.T) {
	out, err := MarshalEnv(&sample{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestMarshalEnv_NotStruct(t *testing.T) {
	_, err := MarshalEnv("nope")
	assert.Error(t, err)
}
