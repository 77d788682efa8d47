package binding

import (
	"net"
	"net/url"

	"github.com/hhkbp2/yatb"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/stdlib"
	"github.com/pkg/errors"
)

const (
	PropertyPgsqlHost            = "pgsql.host"
	PropertyPgsqlHostDefault     = "127.0.0.1"
	PropertyPgsqlPort            = "pgsql.port"
	PropertyPgsqlPortDefault     = "5432"
	PropertyPgsqlDatabase        = "pgsql.db"
	PropertyPgsqlDatabaseDefault = "tpch"
	PropertyPgsqlUser            = "pgsql.user"
	PropertyPgsqlUserDefault     = "postgres"
	PropertyPgsqlPassword        = "pgsql.password"
	PropertyPgsqlPasswordDefault = ""
	// Extra connection parameters in query string form, e.g. sslmode=disable.
	PropertyPgsqlOptions        = "pgsql.options"
	PropertyPgsqlOptionsDefault = "sslmode=disable"
)

type PgsqlDB struct {
	*SQLDB
}

func NewPgsqlDB() *PgsqlDB {
	return &PgsqlDB{
		SQLDB: NewSQLDB(),
	}
}

// PgsqlConnString builds a postgres:// URL from the pgsql properties.
func PgsqlConnString(props yatb.Properties) (string, error) {
	get := props.GetDefault
	options, err := url.ParseQuery(get(PropertyPgsqlOptions, PropertyPgsqlOptionsDefault))
	if err != nil {
		return "", errors.Wrapf(err, "invalid %s", PropertyPgsqlOptions)
	}
	u := &url.URL{
		Scheme: "postgres",
		Host: net.JoinHostPort(
			get(PropertyPgsqlHost, PropertyPgsqlHostDefault),
			get(PropertyPgsqlPort, PropertyPgsqlPortDefault)),
		Path:     "/" + get(PropertyPgsqlDatabase, PropertyPgsqlDatabaseDefault),
		RawQuery: options.Encode(),
	}
	user := get(PropertyPgsqlUser, PropertyPgsqlUserDefault)
	if password := get(PropertyPgsqlPassword, PropertyPgsqlPasswordDefault); len(password) > 0 {
		u.User = url.UserPassword(user, password)
	} else {
		u.User = url.User(user)
	}
	return u.String(), nil
}

func (self *PgsqlDB) Init() error {
	connString, err := PgsqlConnString(self.GetProperties())
	if err != nil {
		return err
	}
	config, err := pgx.ParseConfig(connString)
	if err != nil {
		return errors.Wrap(err, "fail to parse pgsql config")
	}
	// The query files may hold several statements, which only the simple
	// protocol accepts.
	config.PreferSimpleProtocol = true
	return self.OpenDB(stdlib.OpenDB(*config))
}
