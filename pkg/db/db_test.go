package db

import "testing"

func TestConfig_DSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "host and port",
			cfg:  Config{User: "root", Password: "pw", Host: "127.0.0.1", Port: "3306", DBName: "scrobblex", ParseTime: true},
			want: "root:pw@tcp(127.0.0.1:3306)/scrobblex?charset=utf8mb4&parseTime=true&loc=Local",
		},
		{
			name: "host only",
			cfg:  Config{User: "u", Password: "p", Host: "db:3307", DBName: "x", Charset: "utf8", Loc: "UTC"},
			want: "u:p@tcp(db:3307)/x?charset=utf8&parseTime=false&loc=UTC",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.DSN(); got != tt.want {
				t.Errorf("DSN() = %q, want %q", got, tt.want)
			}
		})
	}
}
