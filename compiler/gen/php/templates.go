package php

import (
	"text/template"
	"time"
)

// strftimeLayout matches the C locale "%c" rendering.
const strftimeLayout = "Mon Jan _2 15:04:05 2006"

var funcs = template.FuncMap{
	"strftime": func(t *time.Time) string { return t.Format(strftimeLayout) },
}

const preambleTmpl = `<?php
{{- with .Header.Comment}}

{{.}}
{{- end}}

namespace {{.Placement.Namespace}};
`

const importsTmpl = `
{{range .Uses}}use {{.}};
{{end}}`

const classOpenTmpl = `
/**
 * Skeleton subclass for representing a query for one of the subclasses of the '{{.Header.TableName}}' table.
{{- with .Header.Description}}
 *
 * {{.}}
{{- end}}
 *
{{- with .Header.GeneratedAt}}
 * This class was autogenerated by stigen {{$.Header.Version}} on:
 *
 * {{strftime .}}
 *
{{- end}}
 * You should add additional methods to this class to meet the
 * application requirements.  This class will only be generated as
 * long as it does not already exist in the output directory.
 */
class {{.ClassName}} extends {{.Ancestor.Class}}
{
`

const docTmpl = `{{define "doc"}}    /**
{{- range .}}
     * {{.}}
{{- end}}{{end}}`

const factoryTmpl = `
{{template "doc" .Decl.Doc}}
     *
     * @param     string $modelAlias The alias of a model in the query
     * @param     Criteria $criteria Optional Criteria to build the query from
     *
     * @return {{.ClassName}}
     */
    public static function create($modelAlias = null, Criteria $criteria = null)
    {
        if ($criteria instanceof {{.ClassName}}) {
            return $criteria;
        }
        $query = new {{.ClassName}}();
        if (null !== $modelAlias) {
            $query->setModelAlias($modelAlias);
        }
        if ($criteria instanceof Criteria) {
            $query->mergeWith($criteria);
        }

        return $query;
    }
`

const conditionTmpl = `{{define "condition"}}$this->addUsingAlias({{.ColumnConstant}}, {{.TableMap}}::{{.Constant}});{{end}}`

const preSelectTmpl = `
{{template "doc" .Decl.Doc}}
     */
    public function preSelect(ConnectionInterface $con)
    {
        {{template "condition" .Condition}}
    }
`

const preUpdateTmpl = `
{{template "doc" .Decl.Doc}}
     */
    public function preUpdate(&$values, ConnectionInterface $con, $forceIndividualSaves = false)
    {
        {{template "condition" .Condition}}
    }
`

const preDeleteTmpl = `
{{template "doc" .Decl.Doc}}
     */
    public function preDelete(ConnectionInterface $con)
    {
        {{template "condition" .Condition}}
    }
`

const deleteAllTmpl = `
{{template "doc" .Decl.Doc}}
     * This method is called by ModelCriteria::deleteAll() inside a transaction
     *
     * @param ConnectionInterface $con a connection object
     *
     * @return integer the number of deleted rows
     */
    public function doDeleteAll(ConnectionInterface $con = null)
    {
        // condition on class key is already added in preDelete()
        return parent::delete($con);
    }
`

const closeTmpl = `
} // {{.ClassName}}
`

var templates = template.Must(template.New("php").Funcs(funcs).Parse(docTmpl + conditionTmpl))

func init() {
	for name, text := range map[string]string{
		"preamble":  preambleTmpl,
		"imports":   importsTmpl,
		"classOpen": classOpenTmpl,
		"factory":   factoryTmpl,
		"preSelect": preSelectTmpl,
		"preUpdate": preUpdateTmpl,
		"preDelete": preDeleteTmpl,
		"deleteAll": deleteAllTmpl,
		"close":     closeTmpl,
	} {
		template.Must(templates.New(name).Parse(text))
	}
}
