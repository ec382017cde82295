package render

import "github.com/soygarfield/go-editorial/pkg/document"

// RegisterBuiltIns registers the block, list, mark and custom type handlers
// shipped with the package.
func RegisterBuiltIns(registry *Registry) error {
	nodes := []struct {
		kind    document.Kind
		subtype string
		handler Handler
	}{
		{document.KindBlock, document.StyleNormal, blockHandler("p")},
		{document.KindBlock, document.StyleH2, blockHandler("h2")},
		{document.KindBlock, document.StyleH3, blockHandler("h3")},
		{document.KindList, document.ListBullet, listHandler("ul", document.ListBullet)},
		{document.KindList, document.ListNumber, listHandler("ol", document.ListNumber)},
		{document.KindListItem, document.ListBullet, listItemHandler(document.ListBullet)},
		{document.KindListItem, document.ListNumber, listItemHandler(document.ListNumber)},
		{document.KindCustom, document.TypeImage, renderImage},
		{document.KindCustom, document.TypeQuote, renderQuote},
		{document.KindCustom, document.TypeChecklist, renderChecklist},
		{document.KindCustom, document.TypeCodeBlock, renderCodeBlock},
		{document.KindCustom, document.TypeTable, renderTable},
		{document.KindCustom, document.TypeCTA, renderCTA},
		{document.KindCustom, document.TypeNewsletter, renderNewsletter},
		{document.KindCustom, document.TypeYouTube, renderYouTube},
		{document.KindCustom, document.TypeDivider, renderDivider},
	}
	for _, entry := range nodes {
		if err := registry.Register(entry.kind, entry.subtype, entry.handler); err != nil {
			return err
		}
	}

	marks := map[string]MarkHandler{
		document.MarkStrong: wrapMark("<strong>", "</strong>"),
		document.MarkEm:     wrapMark("<em>", "</em>"),
		document.MarkCode:   wrapMark(`<code class="mark mark--code">`, "</code>"),
		document.MarkLink:   linkMark,
	}
	for subtype, handler := range marks {
		if err := registry.RegisterMark(subtype, handler); err != nil {
			return err
		}
	}
	return nil
}
