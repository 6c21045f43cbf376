package manifest_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fastjson"
	"golang.org/x/text/encoding/charmap"

	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/manifest"
)

const courseA = `<?xml version="1.0" encoding="UTF-8"?>
<manifest identifier="MANIFEST1" xmlns:adlcp="http://www.adlnet.org/xsd/adlcp_rootv1p2">
  <metadata>
    <schema>ADL SCORM</schema>
    <schemaversion>1.2</schemaversion>
  </metadata>
  <organizations default="ORG1">
    <organization identifier="ORG1">
      <title>Course A</title>
      <item identifier="I1" isvisible="true" identifierref="R1">
        <title>Lesson 1</title>
        <item identifier="I1a" identifierref="R2">
          <title>Topic 1.1</title>
        </item>
      </item>
    </organization>
  </organizations>
  <resources>
    <resource identifier="R1" type="webcontent" href="l1/index.html" adlcp:scormtype="sco"/>
    <resource identifier="R2" type="webcontent" href="l1/t1.html" adlcp:scormtype="asset"/>
  </resources>
</manifest>`

func keys(v *fastjson.Value) (out []string) {
	v.GetObject().Visit(func(key []byte, _ *fastjson.Value) {
		out = append(out, string(key))
	})
	return out
}

func TestParse_EndToEnd(t *testing.T) {
	t.Parallel()

	m, err := manifest.Parse([]byte(courseA))
	require.NoError(t, err)

	assert.Equal(t, "ADL SCORM", m.Metadata.Schema)
	assert.Equal(t, "1.2", m.Metadata.SchemaVersion)
	assert.Equal(t, "ORG1", m.Organizations.DefaultOrganizationID)
	require.Len(t, m.Organizations.Organization, 1)

	org := m.Organizations.Organization[0]
	assert.Equal(t, "Course A", org.Title)
	require.Len(t, org.Items, 1)
	assert.Equal(t, "I1", org.Items[0].Identifier)
	assert.Equal(t, "true", org.Items[0].IsVisible)
	require.Len(t, org.Items[0].Items, 1)

	topic := org.Items[0].Items[0]
	assert.Equal(t, "Topic 1.1", topic.Title)

	res, err := m.Resolve(topic)
	require.NoError(t, err)
	assert.Equal(t, "l1/t1.html", res.Href)
	assert.Equal(t, "asset", res.ScormType)
}

func TestParse_OrderPreserved(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString(`<manifest><organizations><organization identifier="O"><item identifier="P">`)
	ids := []string{"c", "a", "e", "b", "d"}
	for _, id := range ids {
		b.WriteString(`<item identifier="` + id + `"/>`)
	}
	b.WriteString(`</item></organization></organizations></manifest>`)

	m, err := manifest.Parse([]byte(b.String()))
	require.NoError(t, err)

	children := m.Organizations.Organization[0].Items[0].Items
	require.Len(t, children, len(ids))
	for i, id := range ids {
		assert.Equal(t, id, children[i].Identifier)
	}
}

func TestParse_DepthPreserved(t *testing.T) {
	t.Parallel()

	const depth = 7
	xml := `<manifest><organizations><organization identifier="O">` +
		strings.Repeat(`<item identifier="x">`, depth+1) +
		strings.Repeat(`</item>`, depth+1) +
		`</organization></organizations></manifest>`

	m, err := manifest.Parse([]byte(xml))
	require.NoError(t, err)

	item := m.Organizations.Organization[0].Items[0]
	levels := 0
	for len(item.Items) > 0 {
		require.Len(t, item.Items, 1)
		item = item.Items[0]
		levels++
	}
	assert.Equal(t, depth, levels)
}

func TestParse_DefaultHref(t *testing.T) {
	t.Parallel()

	xml := `<manifest><resources>
		<resource identifier="R1" type="webcontent"/>
		<resource identifier="R2" href=""/>
	</resources></manifest>`

	m, err := manifest.Parse([]byte(xml))
	require.NoError(t, err)
	require.Len(t, m.Resources.Resource, 2)
	assert.Equal(t, manifest.DefaultHrefPlaceholder, m.Resources.Resource[0].Href)
	assert.Equal(t, manifest.DefaultHrefPlaceholder, m.Resources.Resource[1].Href)

	m, err = manifest.Parse([]byte(xml), manifest.WithHrefPlaceholder("about:blank"))
	require.NoError(t, err)
	assert.Equal(t, "about:blank", m.Resources.Resource[0].Href)

	out, err := manifest.Canonical(m)
	require.NoError(t, err)
	var p fastjson.Parser
	v, err := p.ParseBytes(out)
	require.NoError(t, err)
	assert.Equal(t, "about:blank", string(v.GetStringBytes("resources", "resource", "0", "href")))
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"mismatched": `<manifest><organizations></manifest>`,
		"unclosed":   `<manifest><resources>`,
		"empty":      ``,
		"text":       `not xml at all`,
		"two roots":  `<manifest><organizations default="O"/></manifest><manifest/>`,
		"trailing":   `<manifest/>garbage`,
		"leading":    `garbage<manifest/>`,
	}
	for name, in := range cases {
		in := in
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			m, err := manifest.Parse([]byte(in))
			require.Error(t, err)
			assert.Nil(t, m)
			assert.ErrorIs(t, err, manifest.ErrXMLSyntax)

			var syntaxErr *manifest.XMLSyntaxError
			assert.ErrorAs(t, err, &syntaxErr)
		})
	}
}

func TestParse_MissingOptional(t *testing.T) {
	t.Parallel()

	m, err := manifest.Parse([]byte(`<manifest/>`))
	require.NoError(t, err)

	assert.Empty(t, m.Metadata.Schema)
	assert.Empty(t, m.Organizations.DefaultOrganizationID)
	assert.Empty(t, m.Organizations.Organization)
	assert.Empty(t, m.Resources.Resource)

	out, err := manifest.Canonical(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"metadata":{},"organizations":{"organization":[]},"resources":{"resource":[]}}`, string(out))
}

func TestParse_TextKeptAsWritten(t *testing.T) {
	t.Parallel()

	xml := "<manifest><metadata><schema> ADL SCORM </schema></metadata>" +
		"<organizations><organization identifier=\"O\"><title>\n  Course A\n</title>" +
		"<item identifier=\"I\"><title>  Lesson 1</title></item>" +
		"</organization></organizations></manifest>"

	m, err := manifest.Parse([]byte(xml))
	require.NoError(t, err)
	assert.Equal(t, " ADL SCORM ", m.Metadata.Schema)
	assert.Equal(t, "\n  Course A\n", m.Organizations.Organization[0].Title)
	assert.Equal(t, "  Lesson 1", m.Organizations.Organization[0].Items[0].Title)
}

func TestParse_ScormTypeVariants(t *testing.T) {
	t.Parallel()

	xml := `<manifest xmlns:adlcp="a"><resources>
		<resource identifier="R1" href="a.html" adlcp:scormtype="sco"/>
		<resource identifier="R2" href="b.html" adlcp:scormType="asset"/>
		<resource identifier="R3" href="c.html"/>
	</resources></manifest>`

	m, err := manifest.Parse([]byte(xml))
	require.NoError(t, err)
	assert.Equal(t, "sco", m.Resources.Resource[0].ScormType)
	assert.Equal(t, "asset", m.Resources.Resource[1].ScormType)
	assert.Empty(t, m.Resources.Resource[2].ScormType)
}

func TestParse_DeclaredCharset(t *testing.T) {
	t.Parallel()

	body, err := charmap.Windows1251.NewEncoder().String(
		`<organizations><organization identifier="O"><title>Курс</title></organization></organizations>`)
	require.NoError(t, err)
	raw := []byte(`<?xml version="1.0" encoding="windows-1251"?><manifest>` + body + `</manifest>`)

	m, err := manifest.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "Курс", m.Organizations.Organization[0].Title)
}

func TestParse_BOM(t *testing.T) {
	t.Parallel()

	m, err := manifest.Parse(append([]byte("\xef\xbb\xbf"), []byte(courseA)...))
	require.NoError(t, err)
	assert.Equal(t, "ORG1", m.Organizations.DefaultOrganizationID)
}

func TestCanonical_Compaction(t *testing.T) {
	t.Parallel()

	m, err := manifest.Parse([]byte(courseA))
	require.NoError(t, err)

	out, err := manifest.Canonical(m)
	require.NoError(t, err)

	var p fastjson.Parser
	v, err := p.ParseBytes(out)
	require.NoError(t, err)

	assert.Equal(t, []string{"metadata", "organizations", "resources"}, keys(v))
	assert.Equal(t, []string{"schema", "schemaVersion"}, keys(v.Get("metadata")))
	assert.Equal(t, []string{"defaultOrganizationId", "organization"}, keys(v.Get("organizations")))
	assert.Equal(t, []string{"resource"}, keys(v.Get("resources")))

	org := v.Get("organizations", "organization", "0")
	assert.Equal(t, []string{"identifier", "title", "items"}, keys(org))

	lesson := org.Get("items", "0")
	assert.Equal(t, []string{"identifier", "isvisible", "identifierref", "title", "items"}, keys(lesson))
	assert.Len(t, lesson.GetArray("items"), 1)

	// у листа нет поля items
	topic := lesson.Get("items", "0")
	assert.Equal(t, []string{"identifier", "identifierref", "title"}, keys(topic))
	assert.False(t, topic.Exists("items"))

	assert.Equal(t, []string{"identifier", "type", "href", "scormtype"}, keys(v.Get("resources", "resource", "0")))
}

func TestResolve_FirstMatch(t *testing.T) {
	t.Parallel()

	m := &manifest.Manifest{Resources: manifest.Resources{Resource: []manifest.Resource{
		{Identifier: "R1", Href: "a.html"},
		{Identifier: "R1", Href: "b.html"},
	}}}

	res, err := m.Resolve(manifest.Item{Identifier: "I", ResourceRef: "R1"})
	require.NoError(t, err)
	assert.Equal(t, "a.html", res.Href)
}

func TestResolve_NotFound(t *testing.T) {
	t.Parallel()

	m := &manifest.Manifest{Resources: manifest.Resources{Resource: []manifest.Resource{
		{Identifier: "R1", Href: "a.html"},
	}}}

	res, ok := m.Resources.Find("R9")
	assert.False(t, ok)
	assert.Equal(t, manifest.Resource{}, res)

	_, err := m.Resolve(manifest.Item{Identifier: "I", ResourceRef: "R9"})
	assert.ErrorIs(t, err, manifest.ErrUnresolvedReference)

	_, err = m.Resolve(manifest.Item{Identifier: "G"})
	assert.ErrorIs(t, err, manifest.ErrEmptyReference)
}

func TestDefaultOrganization(t *testing.T) {
	t.Parallel()

	orgs := []manifest.Organization{{Identifier: "A"}, {Identifier: "B"}, {Identifier: "B", Title: "second"}}

	cases := []struct {
		name     string
		def      string
		orgs     []manifest.Organization
		expected string
		ok       bool
	}{
		{name: "declared", def: "B", orgs: orgs, expected: "B", ok: true},
		{name: "unknown falls back to first", def: "Z", orgs: orgs, expected: "A", ok: true},
		{name: "empty falls back to first", def: "", orgs: orgs, expected: "A", ok: true},
		{name: "no organizations", def: "A", orgs: nil, ok: false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			m := &manifest.Manifest{Organizations: manifest.Organizations{
				DefaultOrganizationID: tc.def,
				Organization:          tc.orgs,
			}}
			org, ok := m.DefaultOrganization()
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, org.Identifier)
			assert.Empty(t, org.Title)
		})
	}
}

func TestFindItem(t *testing.T) {
	t.Parallel()

	m, err := manifest.Parse([]byte(courseA))
	require.NoError(t, err)

	item, ok := m.FindItem("I1a")
	require.True(t, ok)
	assert.Equal(t, "R2", item.ResourceRef)

	_, ok = m.FindItem("nope")
	assert.False(t, ok)
}

func TestInspect(t *testing.T) {
	t.Parallel()

	xml := `<manifest>
  <organizations default="MISSING">
    <organization identifier="O1">
      <item identifier="I1" identifierref="R1"/>
      <item identifier="I1" identifierref="R9"/>
      <item identifier="G"/>
    </organization>
    <organization identifier="O1"/>
  </organizations>
  <resources>
    <resource identifier="R1" href="a.html"/>
    <resource identifier="R1"/>
  </resources>
</manifest>`

	m, err := manifest.Parse([]byte(xml))
	require.NoError(t, err)

	issues := manifest.Inspect(m)
	assert.ElementsMatch(t, []manifest.Issue{
		{Kind: manifest.IssueDuplicateIdentifier, Entity: "organization", Identifier: "O1", Detail: "2 occurrences"},
		{Kind: manifest.IssueUnresolvedReference, Entity: "item", Identifier: "I1", Detail: "identifierref R9"},
		{Kind: manifest.IssueDuplicateIdentifier, Entity: "item", Identifier: "I1", Detail: "2 occurrences"},
		{Kind: manifest.IssueDuplicateIdentifier, Entity: "resource", Identifier: "R1", Detail: "2 occurrences"},
		{Kind: manifest.IssueUnknownDefault, Entity: "organizations", Identifier: "MISSING"},
		{Kind: manifest.IssuePlaceholderHref, Entity: "resource", Identifier: "R1"},
	}, issues)

	// дубликаты не отбрасываются при построении
	assert.Len(t, m.Organizations.Organization, 2)
	assert.Len(t, m.Resources.Resource, 2)

	clean, err := manifest.Parse([]byte(courseA))
	require.NoError(t, err)
	assert.Empty(t, manifest.Inspect(clean))
}
