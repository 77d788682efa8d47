package yatb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitStatements(t *testing.T) {
	text := `-- leading comment
create view revenue0 as select 1;
/* block; with a semicolon */
select * from revenue0 where c = 'a;b';

drop view revenue0;
`
	statements := SplitStatements(text)
	require.Len(t, statements, 3)
	require.Equal(t, "create view revenue0 as select 1", statements[0])
	require.Equal(t, "select * from revenue0 where c = 'a;b'", statements[1])
	require.Equal(t, "drop view revenue0", statements[2])
	require.Empty(t, SplitStatements("  ;; -- nothing\n"))
}

func TestClassifyStatement(t *testing.T) {
	cases := map[string]StatementKind{
		"select 1":                      StatementRead,
		"  (SELECT 1) UNION (SELECT 2)": StatementRead,
		"with t as (select 1) select *": StatementRead,
		"insert into t values (1)":      StatementWrite,
		"Update t set a = 1":            StatementWrite,
		"delete from t":                 StatementWrite,
		"create view v as select 1":     StatementOther,
		"drop view v":                   StatementOther,
		"":                              StatementOther,
	}
	for statement, kind := range cases {
		require.Equal(t, kind, ClassifyStatement(statement), statement)
	}
}

func TestCountStatements(t *testing.T) {
	reads, writes, other := CountStatements(
		"create view v as select 1; select * from v; drop view v;")
	require.Equal(t, 1, reads)
	require.Equal(t, 0, writes)
	require.Equal(t, 2, other)
}
