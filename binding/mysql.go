package binding

import (
	"net"

	"github.com/go-sql-driver/mysql"
	"github.com/hhkbp2/yatb"
	"github.com/pkg/errors"
)

const (
	PropertyMysqlHost            = "mysql.host"
	PropertyMysqlHostDefault     = "127.0.0.1"
	PropertyMysqlPort            = "mysql.port"
	PropertyMysqlPortDefault     = "3306"
	PropertyMysqlDatabase        = "mysql.db"
	PropertyMysqlDatabaseDefault = "tpch"
	PropertyMysqlUser            = "mysql.user"
	PropertyMysqlUserDefault     = "root"
	PropertyMysqlPassword        = "mysql.password"
	PropertyMysqlPasswordDefault = ""
	// Extra DSN parameters in query string form.
	PropertyMysqlOptions        = "mysql.options"
	PropertyMysqlOptionsDefault = "charset=utf8"
)

type MysqlDB struct {
	*SQLDB
}

func NewMysqlDB() *MysqlDB {
	return &MysqlDB{
		SQLDB: NewSQLDB(),
	}
}

// MysqlDataSourceName builds the DSN from the mysql properties. Multiple
// statements are enabled since some queries create and drop a view.
func MysqlDataSourceName(props yatb.Properties) (string, error) {
	get := props.GetDefault
	// The options are parsed by the driver itself so the ones it knows
	// don't end up as session variables.
	config, err := mysql.ParseDSN("/?" + get(PropertyMysqlOptions, PropertyMysqlOptionsDefault))
	if err != nil {
		return "", errors.Wrapf(err, "invalid %s", PropertyMysqlOptions)
	}
	config.User = get(PropertyMysqlUser, PropertyMysqlUserDefault)
	config.Passwd = get(PropertyMysqlPassword, PropertyMysqlPasswordDefault)
	config.Net = "tcp"
	config.Addr = net.JoinHostPort(
		get(PropertyMysqlHost, PropertyMysqlHostDefault),
		get(PropertyMysqlPort, PropertyMysqlPortDefault))
	config.DBName = get(PropertyMysqlDatabase, PropertyMysqlDatabaseDefault)
	config.MultiStatements = true
	return config.FormatDSN(), nil
}

func (self *MysqlDB) Init() error {
	dsn, err := MysqlDataSourceName(self.GetProperties())
	if err != nil {
		return err
	}
	return self.Open("mysql", dsn)
}
