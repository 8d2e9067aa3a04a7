package engine

import (
	"regexp"

	"github.com/oarkflow/schemaflow/jsonmap"
)

// Compile translates a raw schema (a *jsonmap.OrderedMap of directives, or a bare
// string reference) into a Program, applying the fixed directive precedence of
// spec.md §4.2. It is pure: the same schema always compiles to an equivalent
// Program, and compilation never touches a Context.
func Compile(schema any) (*Program, error) {
	return compileSchema(schema)
}

// compileSchema is the recursive entry point used both by Compile and by every
// directive whose value is itself a sub-schema (fields, elements, anyof members,
// registry entries, ...). A single recursive descent over a decoded document,
// generalized from "validate against a schema" to "compile a schema", matching
// _compile_or_find's string-vs-map split in the original interpreter
// (recursive/forward schema references always defer to interpret time
// via schemaReferenceInstr, never attempting a compile-time direct pointer — simpler
// than and equally correct to the alternative, and it uniformly handles
// self-references inside the very registry entry being compiled).
func compileSchema(raw any) (*Program, error) {
	switch v := raw.(type) {
	case string:
		return &Program{Instructions: []Instruction{&schemaReferenceInstr{name: v}}}, nil
	case *jsonmap.OrderedMap:
		return compileMap(v)
	default:
		return nil, NewSimpleSchemaError("schema must be a map of directives or a string reference, got %s", describeGoType(raw))
	}
}

// directiveGetter tracks which keys of a schema map have been consumed by a known
// directive, so that whatever remains at the end is reported as unknown.
type directiveGetter struct {
	m        *jsonmap.OrderedMap
	consumed map[string]struct{}
}

func newDirectiveGetter(m *jsonmap.OrderedMap) *directiveGetter {
	return &directiveGetter{m: m, consumed: make(map[string]struct{}, m.Len())}
}

func (g *directiveGetter) get(key string) (any, bool) {
	v, ok := g.m.Get(key)
	if ok {
		g.consumed[key] = struct{}{}
	}
	return v, ok
}

func (g *directiveGetter) unknown() []string {
	var unknown []string
	for _, k := range g.m.Keys() {
		if _, ok := g.consumed[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	return unknown
}

func compileMap(m *jsonmap.OrderedMap) (*Program, error) {
	g := newDirectiveGetter(m)
	var instrs []Instruction

	field, err := extractFieldMeta(g)
	if err != nil {
		return nil, err
	}

	if v, ok := g.get("default_registry"); ok {
		entries, err := compileFuncRegistry(v, adaptDefaultSetterFunc, "default_registry")
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, &registerDefaultsInstr{entries: entries.(map[string]DefaultSetterFunc)})
	}
	if v, ok := g.get("validator_registry"); ok {
		entries, err := compileFuncRegistry(v, adaptValidatorFunc, "validator_registry")
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, &registerValidatorsInstr{entries: entries.(map[string]ValidatorFunc)})
	}
	if v, ok := g.get("coerce_registry"); ok {
		entries, err := compileFuncRegistry(v, adaptCoerceFunc, "coerce_registry")
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, &registerCoercesInstr{entries: entries.(map[string]CoerceFunc)})
	}
	if v, ok := g.get("registry"); ok {
		entries, err := compileSchemaRegistry(v)
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, &registerSchemasInstr{entries: entries})
	}
	if v, ok := g.get("modify_context_registry"); ok {
		entries, err := compileFuncRegistry(v, adaptModifyContextFunc, "modify_context_registry")
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, &registerModifyContextsInstr{entries: entries.(map[string]ModifyContextFunc)})
	}

	if v, ok := g.get("set_tag"); ok {
		instr, err := compileSetTag(v)
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, instr)
	}
	if v, ok := g.get("modify_context"); ok {
		fn, ok2 := fnOrNameFromAny(v)
		if !ok2 {
			return nil, NewSimpleSchemaError("modify_context requires a registry name or a function")
		}
		instrs = append(instrs, &modifyContextInstr{ref: fn})
	}

	if v, ok := g.get("allow_unknown"); ok {
		b, ok2 := v.(bool)
		if !ok2 {
			return nil, NewSimpleSchemaError("allow_unknown must be a boolean")
		}
		instrs = append(instrs, &setAllowUnknownInstr{allow: b})
	}

	if v, ok := g.get("nullable"); ok {
		if b, _ := v.(bool); b {
			instrs = append(instrs, skipIfNullInstr{})
		}
	}

	if v, ok := g.get("coerce"); ok {
		fn, ok2 := fnOrNameFromAny(v)
		if !ok2 {
			return nil, NewSimpleSchemaError("coerce requires a registry name or a function")
		}
		instrs = append(instrs, &coerceInstr{ref: fn})
	}

	if v, ok := g.get("type"); ok {
		name, err := parseTypeName(v)
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, &checkTypeInstr{name: name})
	}

	if v, ok := g.get("when_key_exists"); ok {
		instr, err := compileWhenKeyExists(v)
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, instr)
	}
	if v, ok := g.get("when_key_is"); ok {
		parentFields := lookAheadParentFields(g)
		instr, err := compileWhenKeyIs(v, parentFields)
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, instr)
	}
	if v, ok := g.get("choose_schema"); ok {
		instr, err := compileChooseSchema(v, g)
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, instr)
	}

	if v, ok := g.get("schema_ref"); ok {
		name, ok2 := v.(string)
		if !ok2 {
			return nil, NewSimpleSchemaError("schema_ref must be a string")
		}
		instrs = append(instrs, &schemaReferenceInstr{name: name})
	}

	if v, ok := g.get("oneof"); ok {
		candidates, err := compileMultiCandidates(v, m, "oneof")
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, &oneOfInstr{candidates: candidates})
	}
	if v, ok := g.get("anyof"); ok {
		candidates, err := compileMultiCandidates(v, m, "anyof")
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, &anyOfInstr{candidates: candidates})
	}

	var minPtr, maxPtr *float64
	if v, ok := g.get("min"); ok {
		f, err := toFloat(v)
		if err != nil {
			return nil, err
		}
		minPtr = &f
	}
	if v, ok := g.get("max"); ok {
		f, err := toFloat(v)
		if err != nil {
			return nil, err
		}
		maxPtr = &f
	}
	if minPtr != nil || maxPtr != nil {
		instrs = append(instrs, &checkBoundsInstr{min: minPtr, max: maxPtr})
	}

	var minLenPtr, maxLenPtr *int
	if v, ok := g.get("minlength"); ok {
		n, err := toInt(v)
		if err != nil {
			return nil, err
		}
		minLenPtr = &n
	}
	if v, ok := g.get("maxlength"); ok {
		n, err := toInt(v)
		if err != nil {
			return nil, err
		}
		maxLenPtr = &n
	}
	if minLenPtr != nil || maxLenPtr != nil {
		instrs = append(instrs, &checkLengthInstr{min: minLenPtr, max: maxLenPtr})
	}

	if v, ok := g.get("regex"); ok {
		pattern, ok2 := v.(string)
		if !ok2 {
			return nil, NewSimpleSchemaError("regex must be a string")
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, NewSimpleSchemaError("regex: %v", err)
		}
		instrs = append(instrs, &checkRegexInstr{pattern: pattern, re: re})
	}

	if v, ok := g.get("elements"); ok {
		elemProg, err := compileSchema(v)
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, &elementsInstr{elem: elemProg})
	}

	var keySchemaProg, valueSchemaProg *Program
	if v, ok := g.get("keyschema"); ok {
		keySchemaProg, err = compileSchema(v)
		if err != nil {
			return nil, err
		}
	}
	if v, ok := g.get("valueschema"); ok {
		valueSchemaProg, err = compileSchema(v)
		if err != nil {
			return nil, err
		}
	}
	if keySchemaProg != nil || valueSchemaProg != nil {
		instrs = append(instrs, &checkMapSchemaInstr{keySchema: keySchemaProg, valueSchema: valueSchemaProg})
	}

	if v, ok := g.get("allowed"); ok {
		values, err := toAnyList(v)
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, newCheckAllowList(values))
	}

	if v, ok := g.get("fields"); ok {
		entries, err := compileFieldsMap(v)
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, &checkFieldsInstr{fields: entries})
	}

	if v, ok := g.get("schema"); ok {
		legacy, err := compileLegacySchema(v)
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, legacy...)
	}

	if v, ok := g.get("validator"); ok {
		fn, ok2 := fnOrNameFromAny(v)
		if !ok2 {
			return nil, NewSimpleSchemaError("validator requires a registry name or a function")
		}
		instrs = append(instrs, &customValidatorInstr{ref: fn})
	}

	if v, ok := g.get("coerce_post"); ok {
		fn, ok2 := fnOrNameFromAny(v)
		if !ok2 {
			return nil, NewSimpleSchemaError("coerce_post requires a registry name or a function")
		}
		instrs = append(instrs, &coercePostInstr{ref: fn})
	}

	// metadata is accepted and ignored (spec.md §6).
	g.get("metadata")

	if unknown := g.unknown(); len(unknown) > 0 {
		return nil, NewUnknownSchemaDirectivesError(unknown)
	}

	return &Program{Instructions: instrs, Field: field}, nil
}

// lookAheadParentFields retrieves (and consumes) this schema's `fields` directive,
// falling back to the deprecated `schema` spelling, for merging into when_key_is
// branches (spec.md §4.2 "merges parent-level fields (or legacy schema) into every
// branch").
func lookAheadParentFields(g *directiveGetter) *jsonmap.OrderedMap {
	v, ok := g.get("fields")
	if !ok {
		v, ok = g.get("schema")
	}
	if !ok {
		return nil
	}
	m, _ := v.(*jsonmap.OrderedMap)
	return m
}

func extractFieldMeta(g *directiveGetter) (FieldMeta, error) {
	var field FieldMeta
	if v, ok := g.get("required"); ok {
		b, ok2 := v.(bool)
		if !ok2 {
			return field, NewSimpleSchemaError("required must be a boolean")
		}
		field.Required = b
	}
	if v, ok := g.get("default"); ok {
		field.Default = Some(v)
	}
	if v, ok := g.get("default_setter"); ok {
		fn, ok2 := fnOrNameFromAny(v)
		if !ok2 {
			return field, NewSimpleSchemaError("default_setter requires a registry name or a function")
		}
		field.DefaultSetter = fn
		field.HasSetter = true
	}
	if v, ok := g.get("rename"); ok {
		s, ok2 := v.(string)
		if !ok2 {
			return field, NewSimpleSchemaError("rename must be a string")
		}
		field.Rename = s
	}
	if v, ok := g.get("excludes"); ok {
		field.Excludes = toStringList(v)
	}
	return field, nil
}

func compileFieldsMap(v any) ([]fieldEntry, error) {
	m, ok := v.(*jsonmap.OrderedMap)
	if !ok {
		return nil, NewSimpleSchemaError("fields must be a map of field name to subschema, got %s", describeGoType(v))
	}
	entries := make([]fieldEntry, 0, m.Len())
	for _, k := range m.Keys() {
		sub, _ := m.Get(k)
		prog, err := compileSchema(sub)
		if err != nil {
			return nil, err
		}
		entries = append(entries, fieldEntry{Key: k, Program: prog})
	}
	return entries, nil
}

// compileLegacySchema implements the legacy `schema` directive (spec.md §4.2,
// "dispatches to fields if value is a Map, elements if a Seq, with a heuristic: when
// the sub-schema itself carries a type directive, it is treated as an element
// schema"), grounded on original_source/sureberus/compiler.py's _compile "schema"
// branch: try compiling the value as a fields-map and as a standalone element-schema;
// if only one succeeds, use it; if both succeed, prefer elements when the value
// itself has a literal `type` key (the acknowledged, intentionally-ambiguous
// heuristic spec.md §9 preserves).
func compileLegacySchema(v any) ([]Instruction, error) {
	fieldsProg, fieldsErr := tryCompileAsFields(v)
	elemProg, elemErr := tryCompileAsElements(v)

	if fieldsErr != nil {
		if elemErr != nil {
			return nil, elemErr
		}
		return []Instruction{&elementsInstr{elem: elemProg}}, nil
	}
	if elemErr == nil && schemaHasTypeKey(v) {
		return []Instruction{&elementsInstr{elem: elemProg}}, nil
	}
	return fieldsProg.Instructions, nil
}

func tryCompileAsFields(v any) (*Program, error) {
	entries, err := compileFieldsMap(v)
	if err != nil {
		return nil, err
	}
	return &Program{Instructions: []Instruction{&checkFieldsInstr{fields: entries}}}, nil
}

func tryCompileAsElements(v any) (*Program, error) {
	m, ok := v.(*jsonmap.OrderedMap)
	if !ok {
		return nil, NewSimpleSchemaError("schema (legacy) value must be a map to compile as an element schema, got %s", describeGoType(v))
	}
	return compileMap(m)
}

func schemaHasTypeKey(v any) bool {
	m, ok := v.(*jsonmap.OrderedMap)
	if !ok {
		return false
	}
	return m.Has("type")
}

// compileMultiCandidates compiles the members of an `anyof`/`oneof` list, merging the
// outer schema's other directives into every map-shaped candidate at compile time
// (spec.md §4.3 "anyof semantics": "each candidate is compiled once as a sub-program
// that merges with the outer directives by having the outer schema's non-anyof keys
// copied into every candidate"). A string candidate is a bare schema reference and is
// compiled on its own, since there is no map to merge into.
func compileMultiCandidates(v any, outer *jsonmap.OrderedMap, ownDirective string) ([]*Program, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, NewSimpleSchemaError("%s must be a list of schemas", ownDirective)
	}
	base := outer.Delete("anyof").Delete("oneof")

	candidates := make([]*Program, 0, len(items))
	for _, item := range items {
		switch c := item.(type) {
		case string:
			prog, err := compileSchema(c)
			if err != nil {
				return nil, err
			}
			candidates = append(candidates, prog)
		case *jsonmap.OrderedMap:
			merged := mergeOrderedMaps(base, c)
			prog, err := compileMap(merged)
			if err != nil {
				return nil, err
			}
			candidates = append(candidates, prog)
		default:
			return nil, NewSimpleSchemaError("%s candidate must be a map or a string reference, got %s", ownDirective, describeGoType(item))
		}
	}
	return candidates, nil
}

func mergeOrderedMaps(base, overlay *jsonmap.OrderedMap) *jsonmap.OrderedMap {
	merged := base
	for _, k := range overlay.Keys() {
		v, _ := overlay.Get(k)
		merged = merged.Set(k, v)
	}
	return merged
}

func compileSetTag(v any) (Instruction, error) {
	if s, ok := v.(string); ok {
		return &setTagFromKeyInstr{tag: s, key: s}, nil
	}
	m, ok := v.(*jsonmap.OrderedMap)
	if !ok {
		return nil, NewSimpleSchemaError("set_tag must be a string or a map, got %s", describeGoType(v))
	}
	tagNameRaw, ok := m.Get("tag_name")
	if !ok {
		return nil, NewSimpleSchemaError("set_tag requires a \"tag_name\" entry")
	}
	tagName, ok := tagNameRaw.(string)
	if !ok {
		return nil, NewSimpleSchemaError("set_tag \"tag_name\" must be a string")
	}
	if keyRaw, ok := m.Get("key"); ok {
		keyName, ok2 := keyRaw.(string)
		if !ok2 {
			return nil, NewSimpleSchemaError("set_tag \"key\" must be a string")
		}
		return &setTagFromKeyInstr{tag: tagName, key: keyName}, nil
	}
	if litRaw, ok := m.Get("value"); ok {
		return &setTagFromValueInstr{tag: tagName, literal: litRaw}, nil
	}
	return nil, NewSimpleSchemaError("set_tag requires a \"key\" or \"value\" entry")
}

// compileWhenKeyIs implements the `when_key_is(key, choices, default_choice?)` branch
// compiler (spec.md §4.2), merging parentFields into every branch and injecting an
// `allowed` constraint on the discriminator key, grounded on
// original_source/sureberus/compiler.py's _compile_when_key_is.
func compileWhenKeyIs(v any, parentFields *jsonmap.OrderedMap) (Instruction, error) {
	m, ok := v.(*jsonmap.OrderedMap)
	if !ok {
		return nil, NewSimpleSchemaError("when_key_is must be a map, got %s", describeGoType(v))
	}
	keyRaw, ok := m.Get("key")
	if !ok {
		return nil, NewSimpleSchemaError("when_key_is requires a \"key\" entry")
	}
	key, ok := keyRaw.(string)
	if !ok {
		return nil, NewSimpleSchemaError("when_key_is \"key\" must be a string")
	}
	choicesRaw, ok := m.Get("choices")
	if !ok {
		return nil, NewSimpleSchemaError("when_key_is requires a \"choices\" entry")
	}
	choices, ok := choicesRaw.(*jsonmap.OrderedMap)
	if !ok {
		return nil, NewSimpleSchemaError("when_key_is \"choices\" must be a map")
	}

	choiceKeys := make([]any, 0, choices.Len())
	for _, k := range choices.Keys() {
		choiceKeys = append(choiceKeys, k)
	}
	allowedConstraint := jsonmap.New().Set("allowed", choiceKeys)

	cases := make([]caseEntry, 0, choices.Len())
	for _, k := range choices.Keys() {
		branchRaw, _ := choices.Get(k)
		branchMap, ok := branchRaw.(*jsonmap.OrderedMap)
		if !ok {
			return nil, NewSimpleSchemaError("when_key_is choice %q must be a map, got %s", k, describeGoType(branchRaw))
		}

		branchFieldsRaw, hasBranchFields := branchMap.Get("fields")
		if !hasBranchFields {
			branchFieldsRaw, hasBranchFields = branchMap.Get("schema")
		}
		var branchFields *jsonmap.OrderedMap
		if hasBranchFields {
			branchFields, ok = branchFieldsRaw.(*jsonmap.OrderedMap)
			if !ok {
				return nil, NewSimpleSchemaError("when_key_is choice %q fields must be a map", k)
			}
		}

		mergedFields := jsonmap.New()
		if parentFields != nil {
			mergedFields = mergeOrderedMaps(mergedFields, parentFields)
		}
		if branchFields != nil {
			mergedFields = mergeOrderedMaps(mergedFields, branchFields)
		}
		if !mergedFields.Has(key) {
			mergedFields = mergedFields.Set(key, allowedConstraint)
		}

		branchSchema := branchMap.Delete("fields").Delete("schema").Set("fields", mergedFields)
		branchProg, err := compileMap(branchSchema)
		if err != nil {
			return nil, err
		}
		cases = append(cases, caseEntry{key: k, program: branchProg})
	}

	dfltKey, hasDflt := m.Get("default_choice")
	return &branchWhenKeyIsInstr{key: key, cases: cases, dfltKey: dfltKey, hasDflt: hasDflt}, nil
}

func compileWhenKeyExists(v any) (Instruction, error) {
	m, ok := v.(*jsonmap.OrderedMap)
	if !ok {
		return nil, NewSimpleSchemaError("when_key_exists must be a map of field name to subschema, got %s", describeGoType(v))
	}
	branches := make([]whenKeyExistsBranch, 0, m.Len())
	for _, k := range m.Keys() {
		sub, _ := m.Get(k)
		prog, err := compileSchema(sub)
		if err != nil {
			return nil, err
		}
		branches = append(branches, whenKeyExistsBranch{key: k, program: prog})
	}
	return &branchWhenKeyExistsInstr{branches: branches}, nil
}

func compileWhenTagIs(v any) (Instruction, error) {
	m, ok := v.(*jsonmap.OrderedMap)
	if !ok {
		return nil, NewSimpleSchemaError("when_tag_is must be a map, got %s", describeGoType(v))
	}
	tagRaw, ok := m.Get("tag")
	if !ok {
		return nil, NewSimpleSchemaError("when_tag_is requires a \"tag\" entry")
	}
	tag, ok := tagRaw.(string)
	if !ok {
		return nil, NewSimpleSchemaError("when_tag_is \"tag\" must be a string")
	}
	choicesRaw, ok := m.Get("choices")
	if !ok {
		return nil, NewSimpleSchemaError("when_tag_is requires a \"choices\" entry")
	}
	choices, ok := choicesRaw.(*jsonmap.OrderedMap)
	if !ok {
		return nil, NewSimpleSchemaError("when_tag_is \"choices\" must be a map")
	}
	cases := make([]caseEntry, 0, choices.Len())
	for _, k := range choices.Keys() {
		sub, _ := choices.Get(k)
		prog, err := compileSchema(sub)
		if err != nil {
			return nil, err
		}
		cases = append(cases, caseEntry{key: k, program: prog})
	}
	dfltKey, hasDflt := m.Get("default_choice")
	return &branchWhenTagIsInstr{tag: tag, cases: cases, dfltKey: dfltKey, hasDflt: hasDflt}, nil
}

func compileWhenTypeIs(v any) (Instruction, error) {
	m, ok := v.(*jsonmap.OrderedMap)
	if !ok {
		return nil, NewSimpleSchemaError("when_type_is must be a map of type name to subschema, got %s", describeGoType(v))
	}
	cases := make(map[TypeName]*Program, m.Len())
	for _, k := range m.Keys() {
		typeName, err := parseTypeName(k)
		if err != nil {
			return nil, err
		}
		sub, _ := m.Get(k)
		prog, err := compileSchema(sub)
		if err != nil {
			return nil, err
		}
		cases[typeName] = prog
	}
	return &branchWhenTypeIsInstr{cases: cases}, nil
}

func compileChooseSchema(v any, g *directiveGetter) (Instruction, error) {
	m, ok := v.(*jsonmap.OrderedMap)
	if !ok {
		return nil, NewSimpleSchemaError("choose_schema must be a map, got %s", describeGoType(v))
	}
	if inner, ok := m.Get("when_key_exists"); ok {
		return compileWhenKeyExists(inner)
	}
	if inner, ok := m.Get("when_key_is"); ok {
		parentFields := lookAheadParentFields(g)
		return compileWhenKeyIs(inner, parentFields)
	}
	if inner, ok := m.Get("when_tag_is"); ok {
		return compileWhenTagIs(inner)
	}
	if inner, ok := m.Get("when_type_is"); ok {
		return compileWhenTypeIs(inner)
	}
	if inner, ok := m.Get("function"); ok {
		fn, err := adaptDynamicSchemaFunc(inner)
		if err != nil {
			return nil, err
		}
		return &applyDynamicSchemaInstr{fn: fn}, nil
	}
	return nil, NewSimpleSchemaError("choose_schema requires one of when_tag_is, when_key_is, when_key_exists, when_type_is, or function")
}

func compileSchemaRegistry(v any) (map[string]*Program, error) {
	m, ok := v.(*jsonmap.OrderedMap)
	if !ok {
		return nil, NewSimpleSchemaError("registry must be a map of name to subschema, got %s", describeGoType(v))
	}
	entries := make(map[string]*Program, m.Len())
	for _, k := range m.Keys() {
		sub, _ := m.Get(k)
		prog, err := compileSchema(sub)
		if err != nil {
			return nil, err
		}
		entries[k] = prog
	}
	return entries, nil
}

// compileFuncRegistry compiles a *_registry directive whose entries are always
// literal Go callables (never registry names — that would be circular), adapting
// each with adapt via reflection-free type switches and returning a map of the
// adapted function type, boxed as `any` so one helper serves all four registries.
func compileFuncRegistry[F any](v any, adapt func(any) (F, error), directiveName string) (any, error) {
	m, ok := v.(*jsonmap.OrderedMap)
	if !ok {
		return nil, NewSimpleSchemaError("%s must be a map of name to function, got %s", directiveName, describeGoType(v))
	}
	entries := make(map[string]F, m.Len())
	for _, k := range m.Keys() {
		raw, _ := m.Get(k)
		fn, err := adapt(raw)
		if err != nil {
			return nil, NewSimpleSchemaError("%s entry %q: %v", directiveName, k, err)
		}
		entries[k] = fn
	}
	return entries, nil
}

func parseTypeName(v any) (TypeName, error) {
	s, ok := v.(string)
	if !ok {
		return "", NewSimpleSchemaError("type must be a string, got %s", describeGoType(v))
	}
	switch TypeName(s) {
	case TypeNone, TypeInteger, TypeFloat, TypeNumber, TypeString, TypeBoolean, TypeDict, TypeList, TypeSet:
		return TypeName(s), nil
	default:
		return "", NewSimpleSchemaError("unrecognized type name %q", s)
	}
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, NewSimpleSchemaError("expected a number, got %s", describeGoType(v))
	}
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, NewSimpleSchemaError("expected an integer, got %s", describeGoType(v))
	}
}

func toAnyList(v any) ([]any, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, NewSimpleSchemaError("expected a list, got %s", describeGoType(v))
	}
	return items, nil
}

func toStringList(v any) []string {
	if s, ok := v.(string); ok {
		return []string{s}
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
